package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Kerhoff/homepage/internal/media"
	"github.com/Kerhoff/homepage/internal/service"
)

// maxUploadBytes caps a multipart wishlist request
const maxUploadBytes = 16 << 20

// errBadRequest marks body or path problems that map to 400
var errBadRequest = errors.New("bad request")

type wishItemRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=300"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Link        *string `json:"link" validate:"omitempty,max=2000"`
	Price       *string `json:"price" validate:"omitempty,max=100"`
}

func (req wishItemRequest) input() service.WishItemInput {
	return service.WishItemInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		Price:       req.Price,
	}
}

type reserveRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Contact *string `json:"contact" validate:"omitempty,max=200"`
	Note    *string `json:"note" validate:"omitempty,max=2000"`
}

type createPostRequest struct {
	Title   string   `json:"title" validate:"required,max=300"`
	Summary string   `json:"summary" validate:"required,max=2000"`
	Body    string   `json:"body" validate:"required"`
	Tags    []string `json:"tags" validate:"omitempty,dive,max=64"`
}

type updatePostRequest struct {
	Title   *string   `json:"title" validate:"omitempty,max=300"`
	Summary *string   `json:"summary" validate:"omitempty,max=2000"`
	Body    *string   `json:"body"`
	Tags    *[]string `json:"tags"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest converts validator failures into a service.ValidationError
func (s *Server) validateRequest(dst any) error {
	err := s.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &service.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		}
	}
	return err
}

// decodeJSON reads the request body into dst and validates it
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is empty", errBadRequest)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", errBadRequest)
		}
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return s.validateRequest(dst)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// wishItemCommand reads a wish item create/update from either a JSON body or
// a form (multipart with an optional "image" file, or urlencoded). Empty form
// values count as not supplied. The returned cleanup must always be called.
func (s *Server) wishItemCommand(w http.ResponseWriter, r *http.Request) (service.WishItemInput, *media.Upload, func(), error) {
	noop := func() {}

	if isJSON(r) {
		var req wishItemRequest
		if err := s.decodeJSON(r, &req); err != nil {
			return service.WishItemInput{}, nil, noop, err
		}
		return req.input(), nil, noop, nil
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return service.WishItemInput{}, nil, noop, fmt.Errorf("%w: invalid multipart form: %v", errBadRequest, err)
		}
	} else if err := r.ParseForm(); err != nil {
		return service.WishItemInput{}, nil, noop, fmt.Errorf("%w: invalid form: %v", errBadRequest, err)
	}

	req := wishItemRequest{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Link:        formValue(r, "link"),
		Price:       formValue(r, "price"),
	}
	if err := s.validateRequest(&req); err != nil {
		return service.WishItemInput{}, nil, noop, err
	}

	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	if r.MultipartForm == nil {
		return req.input(), nil, cleanup, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req.input(), nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return service.WishItemInput{}, nil, noop, fmt.Errorf("%w: invalid image part: %v", errBadRequest, err)
	}
	if header.Filename == "" {
		file.Close()
		return req.input(), nil, cleanup, nil
	}

	upload := &media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return req.input(), upload, func() {
		file.Close()
		cleanup()
	}, nil
}

func formValue(r *http.Request, key string) *string {
	v := r.PostForm.Get(key)
	if v == "" {
		return nil
	}
	return &v
}
