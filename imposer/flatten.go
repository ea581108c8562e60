package imposer

// Input is one uploaded file, in submission order.
type Input struct {
	Name string
	Data []byte
}

// BadFile records one rejected input. Rejection happens at the document
// level only; once a page reference exists it is never dropped.
type BadFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// pageRef identifies one source page within the global flattened sequence.
// Its position in the slice returned by flatten is its global order.
type pageRef struct {
	doc  *document
	page int // 1-based page number within doc
}

// flatten validates every input in the order supplied and expands the
// accepted ones into one global page sequence. A rejected input is recorded
// and skipped; it never aborts the batch. An empty page sequence is a legal
// return and signals total failure to the caller.
func flatten(inputs []Input) ([]pageRef, []BadFile) {
	var refs []pageRef
	var bad []BadFile

	for _, in := range inputs {
		doc, err := openDocument(in.Name, in.Data)
		if err != nil {
			bad = append(bad, BadFile{Path: in.Name, Error: err.Error()})
			continue
		}
		for p := 1; p <= doc.pageCount; p++ {
			refs = append(refs, pageRef{doc: doc, page: p})
		}
	}

	return refs, bad
}
