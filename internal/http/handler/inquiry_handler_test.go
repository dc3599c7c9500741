package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/http/handler"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/service"
	"github.com/fremdrift-as/inquiry-api/internal/storage"
	"github.com/fremdrift-as/inquiry-api/internal/testutil"
)

func newCreateFixture(t *testing.T) (*handler.InquiryHandler, *gorm.DB) {
	t.Helper()
	db := testutil.SetupCleanTestDB(t)
	log := zap.NewNop()

	inquiryRepo := repository.NewInquiryRepository(db)
	userRepo := repository.NewUserRepository(db)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	inquirySvc := service.NewInquiryService(inquiryRepo, userRepo, nil, log)
	attachmentSvc := service.NewAttachmentService(inquiryRepo, store, 10, log)

	return handler.NewInquiryHandler(inquirySvc, attachmentSvc, log), db
}

func writeFormFields(t *testing.T, w *multipart.Writer) {
	t.Helper()
	require.NoError(t, w.WriteField("productTitle", "Solcellefeste"))
	require.NoError(t, w.WriteField("productDescription", "Trenger partner for testing"))
	require.NoError(t, w.WriteField("companyName", "Fornybar AS"))
	require.NoError(t, w.WriteField("contactEmail", "post@fornybar.example.com"))
}

func writeAttachment(t *testing.T, w *multipart.Writer, filename, contentType string, content []byte) {
	t.Helper()
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachment"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
}

func postMultipart(h *handler.InquiryHandler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.Create(w, req)
	return w
}

func TestInquiryHandler_CreateMultipartWithAttachment(t *testing.T) {
	h, db := newCreateFixture(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	writeFormFields(t, mw)
	writeAttachment(t, mw, "tilbud.pdf", "application/pdf", []byte("%PDF-1.4 innhold"))
	require.NoError(t, mw.Close())

	w := postMultipart(h, body, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored domain.Inquiry
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "Solcellefeste", stored.ProductTitle)
	assert.Equal(t, "Fornybar AS", stored.CompanyName)
	assert.NotEmpty(t, stored.AttachmentURL, "the public form attachment must land on the inquiry")
	assert.NotEmpty(t, stored.CaseNumber)
}

func TestInquiryHandler_CreateMultipartWithoutAttachment(t *testing.T) {
	h, db := newCreateFixture(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	writeFormFields(t, mw)
	require.NoError(t, mw.Close())

	w := postMultipart(h, body, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored domain.Inquiry
	require.NoError(t, db.First(&stored).Error)
	assert.Empty(t, stored.AttachmentURL)
}

func TestInquiryHandler_CreateMultipartRejectsUnsupportedType(t *testing.T) {
	h, db := newCreateFixture(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	writeFormFields(t, mw)
	writeAttachment(t, mw, "virus.exe", "application/octet-stream", []byte("MZ"))
	require.NoError(t, mw.Close())

	w := postMultipart(h, body, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Inquiry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "a rejected attachment must not create the inquiry")
}

func TestInquiryHandler_CreateMultipartValidatesFields(t *testing.T) {
	h, db := newCreateFixture(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("productTitle", "Uten beskrivelse"))
	require.NoError(t, mw.Close())

	w := postMultipart(h, body, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Inquiry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestInquiryHandler_CreateJSON(t *testing.T) {
	h, db := newCreateFixture(t)

	payload, err := json.Marshal(domain.CreateInquiryRequest{
		ProductTitle:       "Solcellefeste",
		ProductDescription: "Trenger partner for testing",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored domain.Inquiry
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, domain.InquiryStatusUnread, stored.Status)
	assert.Empty(t, stored.AttachmentURL)
}