// test/e2e/e2e_test.go
package e2e

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hr-intake/internal/api"
	"hr-intake/internal/common/config"
	"hr-intake/internal/common/database"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/models"

	adminauth "hr-intake/internal/services/application/admin-auth"
	car "hr-intake/internal/services/application/create-application-record"
	ea "hr-intake/internal/services/application/export-applications"
	la "hr-intake/internal/services/application/list-applicants"
	qa "hr-intake/internal/services/application/query-applications"
	rpp "hr-intake/internal/services/application/resolve-profile-picture"
	sa "hr-intake/internal/services/application/submit-application"
	vad "hr-intake/internal/services/application/validate-application-data"
)

const (
	adminUser = "hradmin"
	adminPass = "s3cret"
)

const insertPattern = "^INSERT INTO applications \\("

type countingUploader struct {
	calls int32
}

func (u *countingUploader) Upload(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
	atomic.AddInt32(&u.calls, 1)
	return &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/p.jpg"}, nil
}

type stack struct {
	router   *gin.Engine
	uploader *countingUploader
}

func newStack(t *testing.T, db *sql.DB) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)

	up := &countingUploader{}
	store := qa.NewHandler(qa.LoadConfig(), db, log)
	auth := adminauth.NewAuthenticator(&adminauth.Config{Username: adminUser, Password: adminPass}, log)

	submit := sa.NewHandler(nil, sa.Dependencies{
		Validator: vad.NewHandler(nil, log),
		Resolver:  rpp.NewHandler(&rpp.Config{Folder: "hr-applications", Timeout: time.Second}, up, log),
		Recorder:  car.NewHandler(nil, db, log),
	}, nil, log)

	router := api.NewRouter(api.Dependencies{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20},
		Submit: submit,
		Export: ea.NewHandler(nil, auth, store, nil, log),
		List:   la.NewHandler(nil, auth, store, nil, log),
		DB:     &database.PostgresClient{DB: db},
		Logger: log,
	})
	return &stack{router: router, uploader: up}
}

func (s *stack) post(path string, body interface{}) *httptest.ResponseRecorder {
	var buf []byte
	switch b := body.(type) {
	case string:
		buf = []byte(b)
	default:
		buf, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func janeDoe() map[string]interface{} {
	return map[string]interface{}{
		"fullName":         "Jane Doe",
		"emailAdd":         "jane@x.com",
		"mobileNo":         "09171234567",
		"birthDate":        "1990-01-01",
		"currentAddress":   "1 Main St",
		"signatureName":    "Jane Doe",
		"dateAccomplished": "2024-01-01",
		"digitalSignature": "agreed",
	}
}

func exportRow(id int64, name string, submitted time.Time) []driver.Value {
	cols := models.QueryTypeAll.Columns()
	row := make([]driver.Value, 0, len(cols)+1)
	for _, c := range cols {
		switch c {
		case models.ColumnID:
			row = append(row, id)
		case models.ColumnSubmissionTimestamp:
			row = append(row, submitted)
		case "full_name", "signature_name":
			row = append(row, name)
		case "email_add":
			row = append(row, "jane@x.com")
		case "age":
			row = append(row, int64(34))
		default:
			row = append(row, nil)
		}
	}
	return append(row, nil)
}

func allColumns() []string {
	return append(append([]string{}, models.QueryTypeAll.Columns()...), models.ColumnProfilePictureName)
}

func TestSubmissionLifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := newStack(t, db)

	t0 := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submission_timestamp"}).AddRow(int64(1), t0))
	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submission_timestamp"}).AddRow(int64(2), t0.Add(time.Minute)))

	w := s.post(api.PathApplications, janeDoe())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, float64(1), first["id"])

	second := janeDoe()
	second["fullName"] = "John Roe"
	w = s.post(api.PathApplications, second)
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Greater(t, out["id"].(float64), first["id"].(float64))

	// rejected submission issues no statement
	bad := janeDoe()
	bad["mobileNo"] = "123"
	w = s.post(api.PathApplications, bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var rejected struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejected))
	assert.Equal(t, map[string]string{"mobileNo": "Valid Mobile Number (10-15 digits) is required."}, rejected.Errors)

	// export
	rows := sqlmock.NewRows(allColumns()).
		AddRow(exportRow(2, "John Roe", t0.Add(time.Minute))...).
		AddRow(exportRow(1, "Jane Doe", t0)...)
	mock.ExpectQuery(regexp.QuoteMeta(mustQuery(t, models.QueryTypeAll))).WillReturnRows(rows)

	w = s.post(api.PathExport, map[string]string{"username": "  " + adminUser + " ", "password": adminPass})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment; filename=HR_Applications_Complete_"))

	sheet := readExport(t, w.Body.Bytes())
	require.Len(t, sheet, 3)
	assert.Equal(t, "ID", sheet[0][0])
	assert.Equal(t, "2", sheet[1][0])
	assert.Equal(t, "John Roe", sheet[1][1])
	assert.Equal(t, "1", sheet[2][0])
	assert.Equal(t, "Jane Doe", sheet[2][1])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnparseableImageStillSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := newStack(t, db)

	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submission_timestamp"}).AddRow(int64(5), time.Now()))

	payload := janeDoe()
	payload["profilePictureBase64"] = "data:image/png;base64,@@not-base64@@"
	w := s.post(api.PathApplications, payload)

	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, float64(5), out["id"])
	assert.NotContains(t, out, "imageUrl")
	assert.Equal(t, int32(0), atomic.LoadInt32(&s.uploader.calls))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminAuthenticationGate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := newStack(t, db)

	for _, creds := range []map[string]string{
		{"username": strings.ToUpper(adminUser), "password": adminPass},
		{"username": adminUser, "password": strings.ToUpper(adminPass)},
		{"username": "", "password": ""},
		{},
	} {
		for _, path := range []string{api.PathExport, api.PathList} {
			w := s.post(path, creds)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %v", path, creds)
		}
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmptyExportAndListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := newStack(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(mustQuery(t, models.QueryTypeAll))).
		WillReturnRows(sqlmock.NewRows(allColumns()))
	listingCols := append(append([]string{}, models.QueryTypeListing.Columns()...), models.ColumnProfilePictureName)
	mock.ExpectQuery(regexp.QuoteMeta(mustQuery(t, models.QueryTypeListing))).
		WillReturnRows(sqlmock.NewRows(listingCols))

	creds := map[string]string{"username": adminUser, "password": adminPass}

	w := s.post(api.PathExport, creds)
	require.Equal(t, http.StatusOK, w.Code)
	sheet := readExport(t, w.Body.Bytes())
	require.Len(t, sheet, 1)

	w = s.post(api.PathList, creds)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

// TestLivePostgres runs against a real database when E2E_DATABASE_URL is set.
func TestLivePostgres(t *testing.T) {
	dsn := os.Getenv("E2E_DATABASE_URL")
	if dsn == "" || testing.Short() {
		t.Skip("E2E_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, database.EnsureSchema(ctx, db))

	s := newStack(t, db)

	var ids []float64
	for i := 0; i < 2; i++ {
		w := s.post(api.PathApplications, janeDoe())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		ids = append(ids, out["id"].(float64))
	}
	assert.Greater(t, ids[1], ids[0])

	w := s.post(api.PathList, map[string]string{"username": adminUser, "password": adminPass})
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.ApplicantSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.NotEmpty(t, listed)
	assert.Equal(t, int64(ids[1]), listed[0].ID)
}

func mustQuery(t *testing.T, qt models.QueryType) string {
	t.Helper()
	q, err := qa.BuildQuery(qt)
	require.NoError(t, err)
	return q
}

func readExport(t *testing.T, data []byte) [][]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.True(t, strings.HasSuffix(zr.File[0].Name, ".xlsx"))

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ea.SheetName)
	require.NoError(t, err)
	return rows
}
