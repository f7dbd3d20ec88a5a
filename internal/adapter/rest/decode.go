package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/usecase"
)

// decodeSubmission reads a listing record from a JSON, urlencoded or multipart body.
// Files under "image" or "images" become uploads.
func decodeSubmission(w http.ResponseWriter, r *http.Request, maxBytes int64) (domain.Record, []usecase.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, nil, bodyError(err)
		}
		uploads, err := readUploads(r.MultipartForm)
		if err != nil {
			return nil, nil, err
		}
		return domain.Record(r.MultipartForm.Value), uploads, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, nil, bodyError(err)
		}
		return domain.Record(r.PostForm), nil, nil
	default:
		rec, err := decodeJSONRecord(r.Body)
		return rec, nil, err
	}
}

func readUploads(form *multipart.Form) ([]usecase.Upload, error) {
	var uploads []usecase.Upload
	for _, field := range []string{domain.FieldImage, domain.FieldImages} {
		for _, fh := range form.File[field] {
			u, err := readUpload(fh)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
		}
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (usecase.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return usecase.Upload{}, bodyError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return usecase.Upload{}, bodyError(err)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return usecase.Upload{}, fieldError(domain.FieldImages, fmt.Sprintf("%s is not an image", fh.Filename))
	}
	return usecase.Upload{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}

// decodeJSONRecord flattens a JSON object into a Record. Scalars become one value,
// arrays become repeated values and an "attributes" object is merged into the top level.
func decodeJSONRecord(body io.Reader) (domain.Record, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Record{}, nil
		}
		return nil, bodyError(err)
	}

	rec := domain.Record{}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if nested, ok := raw[k].(map[string]interface{}); ok && k == "attributes" {
			for ak, av := range nested {
				if err := addValue(rec, ak, av); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := addValue(rec, k, raw[k]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func addValue(rec domain.Record, key string, v interface{}) error {
	switch t := v.(type) {
	case nil:
	case string:
		rec[key] = append(rec[key], t)
	case json.Number:
		rec[key] = append(rec[key], t.String())
	case bool:
		rec[key] = append(rec[key], fmt.Sprint(t))
	case []interface{}:
		for _, item := range t {
			if _, nested := item.([]interface{}); nested {
				return fieldError(key, "must not contain nested arrays")
			}
			if err := addValue(rec, key, item); err != nil {
				return err
			}
		}
	default:
		return fieldError(key, "must be a string, number or list")
	}
	return nil
}

func fieldError(field, message string) error {
	return &domain.ValidationError{Fields: domain.FieldErrors{{Field: field, Message: message}}}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrValidation, tooLarge.Limit)
	}
	return fmt.Errorf("%w: malformed request body: %v", domain.ErrValidation, err)
}
