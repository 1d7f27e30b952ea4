package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/docsight/docsight/internal/pipeline"
)

// newTestServer builds a server around a real pipeline with defaults.
func newTestServer() *Server {
	pl, err := pipeline.NewBuilder().Build()
	if err != nil {
		panic(err)
	}
	return &Server{
		pipeline:       pl,
		processor:      pl,
		corsOrigin:     "*",
		maxUploadMB:    10,
		timeoutSec:     30,
		overlayEnabled: true,
	}
}

// multipartRequest builds a multipart POST request with one file field
// and optional extra form values.
func multipartRequest(url, fileField, filename string, content []byte, fields map[string]string) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			panic(err)
		}
		if _, err := part.Write(content); err != nil {
			panic(err)
		}
	}
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// minimalPDFBytes assembles a one-page PDF with a correct xref table.
func minimalPDFBytes() []byte {
	var b strings.Builder
	offsets := make([]int, 0, 3)
	write := func(s string) {
		b.WriteString(s)
	}
	obj := func(s string) {
		offsets = append(offsets, b.Len())
		write(s)
	}

	write("%PDF-1.4\n")
	obj("1 0 obj\n<</Type/Catalog/Pages 2 0 R>>\nendobj\n")
	obj("2 0 obj\n<</Type/Pages/Kids[3 0 R]/Count 1>>\nendobj\n")
	obj("3 0 obj\n<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Resources<<>>>>\nendobj\n")

	xrefPos := b.Len()
	write("xref\n0 4\n0000000000 65535 f \n")
	for _, off := range offsets {
		write(fmt.Sprintf("%010d 00000 n \n", off))
	}
	write("trailer\n<</Size 4/Root 1 0 R>>\n")
	write(fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefPos))
	return []byte(b.String())
}
