package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"nup-imposer/backend/imposer"
)

const (
	maxFileCount = 800
	maxFileBytes = 100 << 20 // per uploaded file
	maxFieldLen  = 256      // longest accepted form value; longer fields are rejected
)

func handleImpose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart/form-data required")
		return
	}

	var inputs []imposer.Input
	fields := map[string]string{}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
			return
		}

		if part.FileName() == "" {
			val, err := io.ReadAll(io.LimitReader(part, maxFieldLen+1))
			part.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, "reading form field: "+err.Error())
				return
			}
			if len(val) > maxFieldLen {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("field %s exceeds %d bytes", part.FormName(), maxFieldLen))
				return
			}
			fields[part.FormName()] = string(val)
			continue
		}

		if len(inputs) == maxFileCount {
			part.Close()
			writeError(w, http.StatusBadRequest, fmt.Sprintf("too many files (max %d)", maxFileCount))
			return
		}
		data, err := io.ReadAll(io.LimitReader(part, maxFileBytes+1))
		part.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
			return
		}
		if len(data) > maxFileBytes {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("%s exceeds the %d MiB per-file limit", part.FileName(), maxFileBytes>>20))
			return
		}
		inputs = append(inputs, imposer.Input{Name: part.FileName(), Data: data})
	}

	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	opts, err := parseLayout(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := imposer.Impose(inputs, opts)
	log.Printf("impose: files=%d pages=%d sheets=%d bad=%d err=%v",
		len(inputs), res.SourcePages, res.SheetCount, res.TotalBad, err)
	if err != nil {
		writeImposeError(w, err, res)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", deriveFilename(fields["title"])))
	w.Header().Set("X-Source-Pages", strconv.Itoa(res.SourcePages))
	w.Header().Set("X-Sheet-Count", strconv.Itoa(res.SheetCount))
	w.Header().Set("X-Bad-File-Count", strconv.Itoa(res.TotalBad))
	if len(res.BadFiles) > 0 {
		if detail, err := json.Marshal(res.BadFiles); err == nil {
			w.Header().Set("X-Bad-Files", string(detail))
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Output)
}

// parseLayout validates the five layout fields and applies defaults for the
// absent ones. The engine assumes these are in range, so every reject happens
// here.
func parseLayout(fields map[string]string) (imposer.Options, error) {
	opts := imposer.Options{
		Paper:       imposer.PaperA4,
		Orientation: imposer.Landscape,
		Grid:        imposer.Grid{Cols: 4, Rows: 2},
		MarginMM:    10,
		GapMM:       4,
	}

	switch fields["paper"] {
	case "", "A4":
	case "A3":
		opts.Paper = imposer.PaperA3
	default:
		return opts, fmt.Errorf("paper must be A4 or A3, got %q", fields["paper"])
	}

	switch fields["orientation"] {
	case "", "landscape":
	case "portrait":
		opts.Orientation = imposer.Portrait
	default:
		return opts, fmt.Errorf("orientation must be landscape or portrait, got %q", fields["orientation"])
	}

	switch fields["grid"] {
	case "", "4x2":
	case "2x4":
		opts.Grid = imposer.Grid{Cols: 2, Rows: 4}
	default:
		return opts, fmt.Errorf("grid must be 4x2 or 2x4, got %q", fields["grid"])
	}

	var err error
	if opts.MarginMM, err = parseMillimetres("margin", fields["margin"], opts.MarginMM); err != nil {
		return opts, err
	}
	if opts.GapMM, err = parseMillimetres("gap", fields["gap"], opts.GapMM); err != nil {
		return opts, err
	}

	return opts, nil
}

func parseMillimetres(name, raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	if v < 0 || v > 50 {
		return 0, fmt.Errorf("%s must be between 0 and 50 mm, got %v", name, v)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeImposeError(w http.ResponseWriter, err error, res *imposer.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(struct {
		Error    string            `json:"error"`
		TotalBad int               `json:"totalBad"`
		BadFiles []imposer.BadFile `json:"badFiles"`
	}{err.Error(), res.TotalBad, res.BadFiles})
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

func deriveFilename(title string) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = "print"
	}
	sanitized := invalidFilenameChars.ReplaceAllString(trimmed, "_")
	sanitized = strings.Trim(sanitized, ". ")
	if sanitized == "" {
		sanitized = "print"
	}
	return fmt.Sprintf("%s-imposed.pdf", sanitized)
}
