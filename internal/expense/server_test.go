package expense

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BajorskiPatrick/SmartReceipt/internal/cleaning"
	"github.com/BajorskiPatrick/SmartReceipt/internal/extraction"
)

// multipartUpload builds a multipart body with one file under the given field
func multipartUpload(field, filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(content)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		parser      *mockParser
		categorizer *mockCategorizer
		journal     *mockJournal
		service     *Service
		server      *Server
		auth        BasicAuth
		recorder    *httptest.ResponseRecorder
		request     *http.Request
	)

	BeforeEach(func() {
		parser = &mockParser{}
		categorizer = &mockCategorizer{}
		journal = &mockJournal{}
		auth = BasicAuth{}
		recorder = httptest.NewRecorder()
	})

	JustBeforeEach(func() {
		service = NewServiceWithDeps(
			parser, categorizer, newMockStorage(), journal, newMockVisualizer(), 1,
			&seqIDGenerator{},
			&fixedTimeSource{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		)
		DeferCleanup(service.Close)
		server = NewServer(service, journal, auth)
		server.ServeHTTP(recorder, request)
	})

	Describe("POST /api/v1/receipts/process", func() {
		When("the receipt parses successfully", func() {
			BeforeEach(func() {
				groceries := "Groceries"
				parser.result = extraction.Result{
					Reason: extraction.ReasonOK,
					Items:  []cleaning.Item{{ProductName: "KAJZERKA ZWYKLA", Price: 0.50, Quantity: 1.0}},
				}
				categorizer.categories = []*string{&groceries}

				body, contentType := multipartUpload("image", "paragon.jpg", []byte("image-bytes"))
				request = httptest.NewRequest("POST", "/api/v1/receipts/process", body)
				request.Header.Set("Content-Type", contentType)
			})

			It("returns the expenses envelope", func() {
				Expect(recorder.Code).To(Equal(http.StatusOK))

				var resp struct {
					Expenses []LineItem `json:"expenses"`
				}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp.Expenses).To(HaveLen(1))
				Expect(resp.Expenses[0].ProductName).To(Equal("KAJZERKA ZWYKLA"))
				Expect(*resp.Expenses[0].CategoryName).To(Equal("Groceries"))
			})
		})

		When("the receipt yields no items", func() {
			BeforeEach(func() {
				parser.result = extraction.Result{Reason: extraction.ReasonNoText}

				body, contentType := multipartUpload("image", "paragon.jpg", []byte("image-bytes"))
				request = httptest.NewRequest("POST", "/api/v1/receipts/process", body)
				request.Header.Set("Content-Type", contentType)
			})

			It("is a successful response with an empty array", func() {
				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Body.String()).To(MatchJSON(`{"expenses": []}`))
			})
		})

		When("no file is attached", func() {
			BeforeEach(func() {
				body, contentType := multipartUpload("wrong-field", "paragon.jpg", []byte("image-bytes"))
				request = httptest.NewRequest("POST", "/api/v1/receipts/process", body)
				request.Header.Set("Content-Type", contentType)
			})

			It("returns a bad-request error envelope", func() {
				Expect(recorder.Code).To(Equal(http.StatusBadRequest))

				var envelope errorResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
				Expect(envelope.ErrorID).NotTo(BeEmpty())
				Expect(envelope.Status).To(Equal(http.StatusBadRequest))
				Expect(envelope.Error).To(Equal("Bad Request"))
				Expect(envelope.Path).To(Equal("/api/v1/receipts/process"))
				Expect(envelope.Details).NotTo(BeNil())
			})
		})

		When("processing fails", func() {
			BeforeEach(func() {
				parser.result = extraction.Result{
					Reason: extraction.ReasonOK,
					Items:  []cleaning.Item{{ProductName: "KAJZERKA ZWYKLA", Price: 0.50, Quantity: 1.0}},
				}
				categorizer.err = errors.New("classifier down")

				body, contentType := multipartUpload("image", "paragon.jpg", []byte("image-bytes"))
				request = httptest.NewRequest("POST", "/api/v1/receipts/process", body)
				request.Header.Set("Content-Type", contentType)
			})

			It("returns a generic error envelope without internals", func() {
				Expect(recorder.Code).To(Equal(http.StatusInternalServerError))

				var envelope errorResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
				Expect(envelope.Message).To(Equal("receipt processing failed"))
				Expect(recorder.Body.String()).NotTo(ContainSubstring("classifier down"))
			})
		})
	})

	Describe("GET /health", func() {
		BeforeEach(func() {
			request = httptest.NewRequest("GET", "/health", nil)
		})

		It("reports model readiness", func() {
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{"status": "ok", "models": {"parser": true, "categorizer": true}}`))
		})
	})

	Describe("GET /api/v1/requests", func() {
		BeforeEach(func() {
			journal.entries = []*JournalEntry{
				{ID: "abc12345", Status: StatusCompleted, ItemCount: 2},
			}
			request = httptest.NewRequest("GET", "/api/v1/requests", nil)
		})

		It("returns the journal entries", func() {
			Expect(recorder.Code).To(Equal(http.StatusOK))

			var entries []*JournalEntry
			Expect(json.Unmarshal(recorder.Body.Bytes(), &entries)).To(Succeed())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ID).To(Equal("abc12345"))
		})

		When("basic auth is configured", func() {
			BeforeEach(func() {
				auth = BasicAuth{Username: "admin", Password: "secret"}
			})

			It("rejects unauthenticated requests", func() {
				Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			})
		})
	})

	Describe("GET /api/v1/requests/{id}", func() {
		BeforeEach(func() {
			journal.entries = []*JournalEntry{
				{ID: "abc12345", Status: StatusCompleted, ItemCount: 2},
			}
		})

		When("the entry exists", func() {
			BeforeEach(func() {
				request = httptest.NewRequest("GET", "/api/v1/requests/abc12345", nil)
			})

			It("returns it", func() {
				Expect(recorder.Code).To(Equal(http.StatusOK))

				var entry JournalEntry
				Expect(json.Unmarshal(recorder.Body.Bytes(), &entry)).To(Succeed())
				Expect(entry.ItemCount).To(Equal(2))
			})
		})

		When("the entry does not exist", func() {
			BeforeEach(func() {
				request = httptest.NewRequest("GET", "/api/v1/requests/missing", nil)
			})

			It("returns a not-found envelope", func() {
				Expect(recorder.Code).To(Equal(http.StatusNotFound))

				var envelope errorResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
				Expect(envelope.Status).To(Equal(http.StatusNotFound))
			})
		})
	})
})
