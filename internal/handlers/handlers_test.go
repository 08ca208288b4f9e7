// handlers_test.go
//
// Community missing-persons reporting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lookout.
// lookout is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lookout is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lookout.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/dbtest"
	"github.com/localnerve/lookout/internal/handlers"
	"github.com/localnerve/lookout/internal/mailer"
	"github.com/localnerve/lookout/internal/middleware"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/storage"
	"github.com/localnerve/lookout/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryStore) Upload(_ context.Context, kind, filename, _ string, r io.Reader, _ int64) (storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Object{}, err
	}
	key := storage.ObjectKey(kind, filename, time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return storage.Object{Key: key, URL: "http://objects.test/lookout/" + key}, nil
}

func (s *memoryStore) HealthCheck(context.Context) error { return nil }

type testServer struct {
	t       *testing.T
	app     *fiber.App
	db      *gorm.DB
	handler *handlers.Handler
	mail    *recordingMailer
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.OpenMemory(t)
	mail := &recordingMailer{}
	h := &handlers.Handler{
		DB:     db,
		Cfg:    &config.Config{DBType: "sqlite-purego", UploadMaxBytes: 1 << 20},
		Tokens: services.NewTokens("0123456789abcdef0123456789abcdef", time.Hour),
		Mailer: mail,
	}
	return &testServer{t: t, app: handlers.NewApp(h), db: db, handler: h, mail: mail}
}

// user inserts an account and returns a bearer token for it
func (s *testServer) user(email, role string) (models.User, string) {
	s.t.Helper()
	user := models.User{Email: email, PasswordHash: "x", FullName: strings.Split(email, "@")[0], Role: role}
	require.NoError(s.t, s.db.Create(&user).Error)
	token, _, err := s.handler.Tokens.Issue(&user)
	require.NoError(s.t, err)
	return user, token
}

func (s *testServer) do(method, path, body, token string) *http.Response {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(req)
}

func (s *testServer) send(req *http.Request) *http.Response {
	s.t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func parse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target), "body: %s", raw)
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	var body utils.ErrorResponseStruct
	parse(t, resp, &body)
	assert.Equal(t, status, resp.StatusCode, "error: %s", body.Error)
	assert.Equal(t, code, body.Code)
	assert.NotEmpty(t, body.Error)
}

const janeDoe = `{"fullName":"Jane Doe","lastSeenLocation":"Central Park","lastSeenDate":"2024-01-01","contactInfo":"jane@x.com"}`

func (s *testServer) createReport(token string) models.Report {
	s.t.Helper()
	resp := s.do("POST", "/api/reports", janeDoe, token)
	require.Equal(s.t, fiber.StatusCreated, resp.StatusCode)
	var report models.Report
	parse(s.t, resp, &report)
	return report
}

func TestRegisterLoginSession(t *testing.T) {
	s := newServer(t)

	resp := s.do("POST", "/api/auth/register", `{"email":"Ann@X.com","password":"password1","fullName":"Ann"}`, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var registered map[string]interface{}
	parse(t, resp, &registered)
	assert.Equal(t, "ann@x.com", registered["email"])
	assert.Equal(t, "user", registered["role"])
	assert.NotContains(t, registered, "passwordHash")
	assert.NotContains(t, registered, "password")

	resp = s.do("POST", "/api/auth/register", `{"email":"ANN@x.com","password":"password2","fullName":"Other"}`, "")
	expectError(t, resp, fiber.StatusConflict, "EMAIL_ALREADY_EXISTS")

	resp = s.do("POST", "/api/auth/register", `{"email":`, "")
	expectError(t, resp, fiber.StatusBadRequest, "INVALID_JSON")

	var unknown, wrong utils.ErrorResponseStruct
	resp = s.do("POST", "/api/auth/login", `{"email":"nobody@x.com","password":"password1"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	parse(t, resp, &unknown)
	resp = s.do("POST", "/api/auth/login", `{"email":"ann@x.com","password":"password2"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	parse(t, resp, &wrong)
	assert.Equal(t, unknown, wrong)
	assert.Equal(t, "INVALID_CREDENTIALS", wrong.Code)

	resp = s.do("POST", "/api/auth/login", `{"email":" ann@x.com ","password":"password1"}`, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	var login handlers.LoginResponse
	parse(t, resp, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, cookie.Value, login.Token)
	assert.Equal(t, "ann@x.com", login.User.Email)

	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: cookie.Value})
	resp = s.send(req)
	var session handlers.SessionResponse
	parse(t, resp, &session)
	assert.True(t, session.Authenticated)
	assert.Equal(t, "ann@x.com", session.User.Email)

	resp = s.do("GET", "/api/auth/session", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	session = handlers.SessionResponse{}
	parse(t, resp, &session)
	assert.False(t, session.Authenticated)
	assert.Nil(t, session.User)

	resp = s.do("POST", "/api/auth/logout", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			assert.Empty(t, c.Value)
		}
	}
}

func TestCreateReportRequiredFields(t *testing.T) {
	s := newServer(t)
	_, token := s.user("owner@x.com", models.RoleUser)

	full := map[string]string{
		"fullName":         "Jane Doe",
		"lastSeenLocation": "Central Park",
		"lastSeenDate":     "2024-01-01",
		"contactInfo":      "jane@x.com",
	}
	codes := map[string]string{
		"fullName":         "MISSING_FULL_NAME",
		"lastSeenLocation": "MISSING_LAST_SEEN_LOCATION",
		"lastSeenDate":     "MISSING_LAST_SEEN_DATE",
		"contactInfo":      "MISSING_CONTACT_INFO",
	}
	for missing, code := range codes {
		t.Run(missing, func(t *testing.T) {
			payload := map[string]string{}
			for k, v := range full {
				if k != missing {
					payload[k] = v
				}
			}
			raw, _ := json.Marshal(payload)
			expectError(t, s.do("POST", "/api/reports", string(raw), token), fiber.StatusBadRequest, code)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.Report{}).Count(&count).Error)
	assert.Zero(t, count)

	expectError(t, s.do("POST", "/api/reports", janeDoe, ""), fiber.StatusUnauthorized, "UNAUTHORIZED")
}

func TestReportLifecycle(t *testing.T) {
	s := newServer(t)
	owner, token := s.user("owner@x.com", models.RoleUser)
	_, strangerToken := s.user("stranger@x.com", models.RoleUser)
	_, adminToken := s.user("admin@x.com", models.RoleAdmin)

	created := s.createReport(token)
	assert.Equal(t, models.ReportActive, created.Status)
	assert.Equal(t, owner.ID, *created.ReportedBy)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	resp := s.do("GET", fmt.Sprintf("/api/reports/%d", created.ID), "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var fetched models.Report
	parse(t, resp, &fetched)
	assert.Equal(t, "Jane Doe", fetched.FullName)
	assert.Equal(t, "Central Park", fetched.LastSeenLocation)
	assert.Equal(t, "2024-01-01", fetched.LastSeenDate)
	assert.Equal(t, "jane@x.com", *fetched.ContactInfo)
	assert.Equal(t, "active", fetched.Status)
	assert.True(t, fetched.CreatedAt.Equal(fetched.UpdatedAt))

	expectError(t, s.do("GET", "/api/reports/abc", "", ""), fiber.StatusBadRequest, "INVALID_ID")
	expectError(t, s.do("GET", "/api/reports/9999", "", ""), fiber.StatusNotFound, "NOT_FOUND")

	path := fmt.Sprintf("/api/reports/%d", created.ID)
	expectError(t, s.do("PATCH", path, `{"status":"missing"}`, token), fiber.StatusBadRequest, "INVALID_STATUS")
	expectError(t, s.do("PATCH", path, `{}`, token), fiber.StatusBadRequest, "NO_FIELDS_PROVIDED")
	expectError(t, s.do("PATCH", path, `{"description":"x"}`, strangerToken), fiber.StatusForbidden, "FORBIDDEN")

	resp = s.do("GET", path, "", "")
	parse(t, resp, &fetched)
	assert.Equal(t, "active", fetched.Status)

	resp = s.do("PATCH", path, `{"status":"found"}`, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated models.Report
	parse(t, resp, &updated)
	assert.Equal(t, "found", updated.Status)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	sent := s.mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@x.com", sent[0].ToAddress)

	resp = s.do("GET", path+"/events", "", adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var events []models.ReportEvent
	parse(t, resp, &events)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventStatusChanged, events[0].Action)
	expectError(t, s.do("GET", path+"/events", "", token), fiber.StatusForbidden, "FORBIDDEN")

	resp = s.do("DELETE", path, "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var deleted handlers.DeleteReportResponse
	parse(t, resp, &deleted)
	assert.NotEmpty(t, deleted.Message)
	assert.Equal(t, created.ID, deleted.DeletedReport.ID)

	expectError(t, s.do("GET", path, "", ""), fiber.StatusNotFound, "NOT_FOUND")
	expectError(t, s.do("DELETE", path, "", token), fiber.StatusNotFound, "NOT_FOUND")
}

func TestListReportsFilters(t *testing.T) {
	s := newServer(t)
	owner, token := s.user("owner@x.com", models.RoleUser)
	s.createReport(token)
	resp := s.do("POST", "/api/reports",
		`{"fullName":"John Roe","lastSeenLocation":"Harbor","lastSeenDate":"d","contactInfo":"c","status":"found"}`, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var reports []models.Report
	parse(t, s.do("GET", "/api/reports?status=found", "", ""), &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, "John Roe", reports[0].FullName)

	parse(t, s.do("GET", "/api/reports?search=CENTRAL", "", ""), &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, "Jane Doe", reports[0].FullName)

	parse(t, s.do("GET", fmt.Sprintf("/api/reports?reportedBy=%d", owner.ID), "", ""), &reports)
	assert.Len(t, reports, 2)

	parse(t, s.do("GET", "/api/reports?reportedBy=abc", "", ""), &reports)
	assert.Len(t, reports, 2)

	parse(t, s.do("GET", "/api/reports", "", ""), &reports)
	require.Len(t, reports, 2)
	assert.Equal(t, "John Roe", reports[0].FullName)
}

func TestPaginationClamp(t *testing.T) {
	s := newServer(t)
	owner, _ := s.user("owner@x.com", models.RoleUser)

	reports := make([]models.Report, 120)
	footage := make([]models.CCTVFootage, 120)
	notes := make([]models.Notification, 120)
	for i := range reports {
		reports[i] = models.Report{FullName: fmt.Sprintf("Person %d", i), LastSeenLocation: "x", LastSeenDate: "y", Status: models.ReportActive}
		footage[i] = models.CCTVFootage{Location: "x", FootageDate: "y", Status: models.FootagePending}
		notes[i] = models.Notification{UserID: owner.ID, Message: "m", Type: "info"}
	}
	require.NoError(t, s.db.CreateInBatches(reports, 50).Error)
	require.NoError(t, s.db.CreateInBatches(footage, 50).Error)
	require.NoError(t, s.db.CreateInBatches(notes, 50).Error)

	var rows []map[string]interface{}
	parse(t, s.do("GET", "/api/reports?limit=500", "", ""), &rows)
	assert.Len(t, rows, 100)
	parse(t, s.do("GET", "/api/reports", "", ""), &rows)
	assert.Len(t, rows, 50)
	parse(t, s.do("GET", "/api/reports?limit=10&offset=115", "", ""), &rows)
	assert.Len(t, rows, 5)
	parse(t, s.do("GET", "/api/cctv-footage?limit=500", "", ""), &rows)
	assert.Len(t, rows, 100)

	ownerToken, _, err := s.handler.Tokens.Issue(&owner)
	require.NoError(t, err)
	parse(t, s.do("GET", "/api/notifications?limit=500", "", ownerToken), &rows)
	assert.Len(t, rows, 100)

	expectError(t, s.do("GET", "/api/reports?limit=abc", "", ""), fiber.StatusBadRequest, "INVALID_PAGINATION")
}

func TestSightingsEndpoints(t *testing.T) {
	s := newServer(t)
	_, ownerToken := s.user("owner@x.com", models.RoleUser)
	helper, helperToken := s.user("helper@x.com", models.RoleUser)
	report := s.createReport(ownerToken)

	expectError(t, s.do("GET", "/api/sightings", "", ""), fiber.StatusBadRequest, "MISSING_REPORT_ID")
	expectError(t, s.do("GET", "/api/sightings?reportId=abc", "", ""), fiber.StatusBadRequest, "INVALID_REPORT_ID")

	expectError(t, s.do("POST", "/api/sightings", `{"reportId":999999,"sightingLocation":"Pier","sightingDate":"2024-01-02"}`, helperToken),
		fiber.StatusNotFound, "REPORT_NOT_FOUND")
	expectError(t, s.do("POST", "/api/sightings", `{"reportId":"x","sightingLocation":"Pier","sightingDate":"2024-01-02"}`, helperToken),
		fiber.StatusBadRequest, "INVALID_REPORT_ID")
	expectError(t, s.do("POST", "/api/sightings", fmt.Sprintf(`{"reportId":%d,"sightingDate":"2024-01-02"}`, report.ID), helperToken),
		fiber.StatusBadRequest, "MISSING_SIGHTING_LOCATION")

	resp := s.do("POST", "/api/sightings", fmt.Sprintf(`{"reportId":%d,"sightingLocation":"Pier","sightingDate":"2024-01-02"}`, report.ID), helperToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var sighting models.Sighting
	parse(t, resp, &sighting)
	assert.False(t, sighting.Verified)
	assert.Equal(t, helper.ID, *sighting.ReportedByUserID)

	sent := s.mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@x.com", sent[0].ToAddress)
	assert.Contains(t, sent[0].Text, "Pier")

	path := fmt.Sprintf("/api/sightings/%d", sighting.ID)
	resp = s.do("PATCH", path, `{"verified":true,"sighting_location":"Moon","reportId":2}`, ownerToken)
	var protected utils.ErrorResponseStruct
	parse(t, resp, &protected)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_UPDATE_FIELDS", protected.Code)
	assert.Contains(t, protected.Error, "reportId")
	assert.Contains(t, protected.Error, "sighting_location")

	expectError(t, s.do("PATCH", path, `{"verified":"yes"}`, ownerToken), fiber.StatusBadRequest, "INVALID_VERIFIED_TYPE")
	expectError(t, s.do("PATCH", path, `{"verified":true}`, helperToken), fiber.StatusForbidden, "FORBIDDEN")

	resp = s.do("PATCH", path, `{"verified":true}`, ownerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	parse(t, resp, &sighting)
	assert.True(t, sighting.Verified)
	assert.Equal(t, "Pier", sighting.SightingLocation)

	var list []models.Sighting
	parse(t, s.do("GET", fmt.Sprintf("/api/sightings?reportId=%d", report.ID), "", ""), &list)
	assert.Len(t, list, 1)

	expectError(t, s.do("GET", "/api/sightings/999", "", ""), fiber.StatusNotFound, "SIGHTING_NOT_FOUND")
}

func TestFootageEndpoints(t *testing.T) {
	s := newServer(t)
	_, ownerToken := s.user("owner@x.com", models.RoleUser)
	_, adminToken := s.user("admin@x.com", models.RoleAdmin)
	report := s.createReport(ownerToken)

	expectError(t, s.do("POST", "/api/cctv-footage", `{"footageDate":"2024-01-03"}`, ownerToken), fiber.StatusBadRequest, "MISSING_LOCATION")
	expectError(t, s.do("POST", "/api/cctv-footage", `{"location":"Main St","footageDate":"2024-01-03","status":"lost"}`, ownerToken),
		fiber.StatusBadRequest, "INVALID_STATUS")

	resp := s.do("POST", "/api/cctv-footage", `{"location":"Main St","footageDate":"2024-01-03"}`, ownerToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var footage models.CCTVFootage
	parse(t, resp, &footage)
	assert.Equal(t, models.FootagePending, footage.Status)

	expectError(t, s.do("GET", "/api/cctv-footage?status=bogus", "", ""), fiber.StatusBadRequest, "INVALID_STATUS")
	expectError(t, s.do("GET", "/api/cctv-footage?reportId=-1", "", ""), fiber.StatusBadRequest, "INVALID_REPORT_ID")

	path := fmt.Sprintf("/api/cctv-footage/%d", footage.ID)
	expectError(t, s.do("PATCH", path, `{"status":"reviewed"}`, ownerToken), fiber.StatusForbidden, "FORBIDDEN")
	expectError(t, s.do("PATCH", path, `{"footage_date":"x"}`, adminToken), fiber.StatusBadRequest, "INVALID_UPDATE_FIELDS")
	expectError(t, s.do("PATCH", path, `{"reportId":424242}`, adminToken), fiber.StatusNotFound, "REPORT_NOT_FOUND")

	resp = s.do("PATCH", path, fmt.Sprintf(`{"reportId":%d,"status":"matched"}`, report.ID), adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	parse(t, resp, &footage)
	assert.Equal(t, report.ID, *footage.ReportID)
	assert.Len(t, s.mail.messages(), 1)

	var list []models.CCTVFootage
	parse(t, s.do("GET", fmt.Sprintf("/api/cctv-footage?reportId=%d&status=matched", report.ID), "", ""), &list)
	assert.Len(t, list, 1)

	resp = s.do("GET", path, "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	expectError(t, s.do("GET", "/api/cctv-footage/999", "", ""), fiber.StatusNotFound, "FOOTAGE_NOT_FOUND")
}

func TestNotificationsEndpoints(t *testing.T) {
	s := newServer(t)
	user, token := s.user("u@x.com", models.RoleUser)
	_, otherToken := s.user("o@x.com", models.RoleUser)
	_, adminToken := s.user("admin@x.com", models.RoleAdmin)

	expectError(t, s.do("POST", "/api/notifications", fmt.Sprintf(`{"userId":%d,"message":"hi"}`, user.ID), token),
		fiber.StatusForbidden, "FORBIDDEN")
	expectError(t, s.do("POST", "/api/notifications", `{"userId":9999,"message":"hi"}`, adminToken),
		fiber.StatusNotFound, "USER_NOT_FOUND")

	var ids []uint64
	for _, msg := range []string{"one", "two", "three"} {
		resp := s.do("POST", "/api/notifications", fmt.Sprintf(`{"userId":%d,"message":%q}`, user.ID, msg), adminToken)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var note models.Notification
		parse(t, resp, &note)
		assert.Equal(t, "info", note.Type)
		ids = append(ids, note.ID)
	}
	assert.Len(t, s.mail.messages(), 3)

	expectError(t, s.do("GET", "/api/notifications", "", ""), fiber.StatusUnauthorized, "UNAUTHORIZED")
	expectError(t, s.do("GET", "/api/notifications?userId=abc", "", token), fiber.StatusBadRequest, "INVALID_USER_ID")
	expectError(t, s.do("GET", fmt.Sprintf("/api/notifications?userId=%d", user.ID), "", otherToken),
		fiber.StatusForbidden, "FORBIDDEN")

	var notes []models.Notification
	parse(t, s.do("GET", fmt.Sprintf("/api/notifications?userId=%d", user.ID), "", adminToken), &notes)
	assert.Len(t, notes, 3)

	path := fmt.Sprintf("/api/notifications/%d", ids[0])
	for i := 0; i < 2; i++ {
		resp := s.do("PATCH", path, "", token)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var note models.Notification
		parse(t, resp, &note)
		assert.True(t, note.Read)
	}
	expectError(t, s.do("PATCH", path, `{"read":`, token), fiber.StatusBadRequest, "INVALID_JSON")
	expectError(t, s.do("PATCH", path, `{"read":"yes"}`, token), fiber.StatusBadRequest, "INVALID_READ_VALUE")
	expectError(t, s.do("PATCH", path, `{"read":false}`, otherToken), fiber.StatusForbidden, "FORBIDDEN")
	expectError(t, s.do("PATCH", "/api/notifications/9999", "", token), fiber.StatusNotFound, "NOTIFICATION_NOT_FOUND")

	resp := s.do("PATCH", path, `{"read":false}`, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	parse(t, s.do("GET", "/api/notifications?unreadOnly=true", "", token), &notes)
	assert.Len(t, notes, 3)

	var readAll handlers.ReadAllResponse
	parse(t, s.do("POST", "/api/notifications/read-all", fmt.Sprintf(`{"ids":%d}`, ids[1]), token), &readAll)
	assert.Equal(t, int64(1), readAll.Updated)
	parse(t, s.do("POST", "/api/notifications/read-all", "", token), &readAll)
	assert.Equal(t, int64(2), readAll.Updated)
	expectError(t, s.do("POST", "/api/notifications/read-all", `{"ids":"x"}`, token), fiber.StatusBadRequest, "INVALID_IDS")

	parse(t, s.do("GET", "/api/notifications?unreadOnly=true", "", token), &notes)
	assert.Empty(t, notes)

	parse(t, s.do("GET", "/api/notifications", "", otherToken), &notes)
	assert.Empty(t, notes)
}

func TestUsersEndpoints(t *testing.T) {
	s := newServer(t)
	user, token := s.user("u@x.com", models.RoleUser)
	_, adminToken := s.user("admin@x.com", models.RoleAdmin)

	expectError(t, s.do("GET", "/api/users", "", token), fiber.StatusForbidden, "FORBIDDEN")

	resp := s.do("GET", "/api/users", "", adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	parse(t, resp, &users)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "passwordHash")
	}

	path := fmt.Sprintf("/api/users/%d/role", user.ID)
	expectError(t, s.do("PATCH", path, `{"role":"root"}`, adminToken), fiber.StatusBadRequest, "INVALID_ROLE")
	expectError(t, s.do("PATCH", "/api/users/999/role", `{"role":"admin"}`, adminToken), fiber.StatusNotFound, "USER_NOT_FOUND")

	resp = s.do("PATCH", path, `{"role":"admin"}`, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated models.User
	parse(t, resp, &updated)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func multipartUpload(t *testing.T, kind, filename, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if kind != "" {
		require.NoError(t, w.WriteField("kind", kind))
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake media"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploads(t *testing.T) {
	s := newServer(t)
	_, token := s.user("u@x.com", models.RoleUser)

	req := multipartUpload(t, "", "face.jpg", "image/jpeg")
	req.Header.Set("Authorization", "Bearer "+token)
	expectError(t, s.send(req), fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE")

	store := &memoryStore{}
	s.handler.Store = store

	req = multipartUpload(t, "", "Face.JPG", "image/jpeg")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := s.send(req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var obj storage.Object
	parse(t, resp, &obj)
	assert.True(t, strings.HasPrefix(obj.Key, "images/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"))
	assert.Contains(t, obj.URL, obj.Key)
	assert.Equal(t, []byte("fake media"), store.objects[obj.Key])

	req = multipartUpload(t, "video", "clip.jpg", "image/jpeg")
	req.Header.Set("Authorization", "Bearer "+token)
	expectError(t, s.send(req), fiber.StatusBadRequest, "INVALID_FILE_TYPE")

	req = multipartUpload(t, "image", "", "")
	req.Header.Set("Authorization", "Bearer "+token)
	expectError(t, s.send(req), fiber.StatusBadRequest, "MISSING_FILE")

	req = multipartUpload(t, "audio", "a.mp3", "audio/mpeg")
	req.Header.Set("Authorization", "Bearer "+token)
	expectError(t, s.send(req), fiber.StatusBadRequest, "INVALID_KIND")

	req = multipartUpload(t, "", "face.jpg", "image/jpeg")
	expectError(t, s.send(req), fiber.StatusUnauthorized, "UNAUTHORIZED")
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := newServer(t)

	resp := s.do("GET", "/api/health", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health services.HealthCheckResult
	parse(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Database)
	assert.Equal(t, "disabled", health.Storage)

	resp = s.do("GET", "/api/does-not-exist", "", "")
	var body utils.ErrorResponseStruct
	parse(t, resp, &body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", body.Code)
	assert.Contains(t, body.Error, "/api/does-not-exist")
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}
