package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	"github.com/BruksfildServices01/vet-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/vet-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/vet-scheduler/internal/models"
	"github.com/BruksfildServices01/vet-scheduler/internal/routes"
)

type testServer struct {
	url      string
	repo     *repository.MemoryRepository
	dispatch *audit.Dispatcher

	petID   string
	ownerID string
	otherID string
}

func newTestServer(t *testing.T, jwtSecret string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	s := &testServer{
		repo:    repo,
		petID:   uuid.NewString(),
		ownerID: uuid.NewString(),
		otherID: uuid.NewString(),
	}
	repo.AddPet(models.Pet{ID: s.petID, OwnerID: s.ownerID, Name: "Firulais", Description: "Labrador dorado"})
	repo.AddUser(models.User{ID: s.ownerID, Name: "Ana", Email: "ana@example.com"})
	repo.AddUser(models.User{ID: s.otherID, Name: "Luis", Email: "luis@example.com"})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.dispatch = audit.NewDispatcher(audit.New(repo), log)
	t.Cleanup(func() { _ = s.dispatch.Close(context.Background()) })

	r, err := routes.NewRouter(routes.Deps{
		Repo:        repo,
		AuditReader: repo,
		Audit:       s.dispatch,
		Locker:      lock.NewLocalLocker(time.Second),
		Location:    time.UTC,
		Log:         log,
		JWTSecret:   jwtSecret,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	s.url = ts.URL
	return s
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body=%s", string(raw))
	}
	return res.StatusCode, out
}

func (s *testServer) create(t *testing.T, pet, user, date string) (int, map[string]any) {
	t.Helper()
	return doReq(t, s.url, http.MethodPost, "/createAppointment", "", map[string]any{
		"date": date,
		"pet":  pet,
		"user": user,
	})
}

func appointmentID(t *testing.T, body map[string]any) string {
	t.Helper()
	ap, ok := body["appointment"].(map[string]any)
	require.True(t, ok, "missing appointment in %v", body)
	id, _ := ap["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHTTP_Health(t *testing.T) {
	s := newTestServer(t, "")

	st, body := doReq(t, s.url, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", body["status"])
}

func TestHTTP_CreateSameDayConflict(t *testing.T) {
	s := newTestServer(t, "")

	st, body := s.create(t, s.petID, s.ownerID, "2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, st, "body=%v", body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Cita creada exitosamente en fecha 2024-03-10T09:00:00Z", body["msg"])

	ap := body["appointment"].(map[string]any)
	assert.Equal(t, "SCHEDULED", ap["status"])
	assert.Equal(t, s.petID, ap["pet"])
	assert.Equal(t, s.ownerID, ap["user"])

	st, body = s.create(t, s.petID, s.ownerID, "2024-03-10T17:30:00Z")
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "appointment_conflict", body["error_code"])

	st, _ = s.create(t, s.petID, s.ownerID, "2024-03-11T09:00:00Z")
	assert.Equal(t, http.StatusOK, st)
}

func TestHTTP_CreateValidation(t *testing.T) {
	s := newTestServer(t, "")

	t.Run("missing fields", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPost, "/createAppointment", "", map[string]any{
			"date": "2024-03-10",
		})
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "invalid_request", body["error_code"])
	})

	t.Run("missing user", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPost, "/createAppointment", "", map[string]any{
			"date": "2024-03-10",
			"pet":  s.petID,
		})
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "invalid_request", body["error_code"])
	})

	t.Run("pet is not an id", func(t *testing.T) {
		st, body := s.create(t, "not-an-id", s.ownerID, "2024-03-10")
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "invalid_request", body["error_code"])
	})

	t.Run("unparsable date", func(t *testing.T) {
		st, body := s.create(t, s.petID, s.ownerID, "mañana")
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "invalid_date", body["error_code"])
	})

	t.Run("unknown pet", func(t *testing.T) {
		st, body := s.create(t, uuid.NewString(), s.ownerID, "2024-03-10")
		assert.Equal(t, http.StatusNotFound, st)
		assert.Equal(t, "pet_not_found", body["error_code"])
	})
}

func TestHTTP_ListByUser(t *testing.T) {
	s := newTestServer(t, "")

	st, body := doReq(t, s.url, http.MethodGet, "/citasUsuario/"+s.ownerID, "", nil)
	assert.Equal(t, http.StatusNotFound, st)
	assert.Equal(t, "appointments_not_found", body["error_code"])

	st, _ = s.create(t, s.petID, s.ownerID, "2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, st)
	st, _ = s.create(t, s.petID, s.ownerID, "2024-03-12T09:00:00Z")
	require.Equal(t, http.StatusOK, st)

	st, body = doReq(t, s.url, http.MethodGet, "/citasUsuario/"+s.ownerID, "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, true, body["success"])

	list, ok := body["appointments"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)

	first := list[0].(map[string]any)
	pet := first["pet"].(map[string]any)
	assert.Equal(t, s.petID, pet["id"])
	assert.Equal(t, "Firulais", pet["name"])
	assert.Equal(t, "Labrador dorado", pet["description"])

	st, body = doReq(t, s.url, http.MethodGet, "/citasUsuario/123", "", nil)
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, "invalid_id", body["error_code"])

	st, body = doReq(t, s.url, http.MethodGet, "/citasUsuario/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, st)
	assert.Equal(t, "user_not_found", body["error_code"])
}

func TestHTTP_Update(t *testing.T) {
	s := newTestServer(t, "")

	st, body := s.create(t, s.petID, s.ownerID, "2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, st)
	id := appointmentID(t, body)

	t.Run("non owner is forbidden", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPut, "/modificarCita", "", map[string]any{
			"userId":        s.otherID,
			"appointmentId": id,
			"status":        "COMPLETED",
		})
		assert.Equal(t, http.StatusForbidden, st)
		assert.Equal(t, "appointment_forbidden", body["error_code"])

		stored, err := s.repo.GetAppointmentByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "SCHEDULED", stored.Status)
	})

	t.Run("owner changes date and status", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPut, "/modificarCita", "", map[string]any{
			"userId":        s.ownerID,
			"appointmentId": id,
			"date":          "2024-03-15T10:00:00Z",
			"status":        "RESCHEDULED",
		})
		require.Equal(t, http.StatusOK, st, "body=%v", body)
		assert.Equal(t, "Cita actualizada correctamente", body["message"])

		ap := body["appointment"].(map[string]any)
		assert.Equal(t, "RESCHEDULED", ap["status"])
		assert.Equal(t, "2024-03-15T10:00:00Z", ap["date"])
	})

	t.Run("bad date", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPut, "/modificarCita", "", map[string]any{
			"userId":        s.ownerID,
			"appointmentId": id,
			"date":          "15/03/2024",
		})
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "invalid_date", body["error_code"])
	})

	t.Run("unknown appointment", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPut, "/modificarCita", "", map[string]any{
			"userId":        s.ownerID,
			"appointmentId": uuid.NewString(),
		})
		assert.Equal(t, http.StatusNotFound, st)
		assert.Equal(t, "appointment_not_found", body["error_code"])
	})

	t.Run("missing ids", func(t *testing.T) {
		st, body := doReq(t, s.url, http.MethodPut, "/modificarCita", "", map[string]any{
			"status": "CANCELLED",
		})
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "invalid_request", body["error_code"])
	})
}

func TestHTTP_CancelIsIdempotent(t *testing.T) {
	s := newTestServer(t, "")

	st, body := s.create(t, s.petID, s.ownerID, "2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, st)
	id := appointmentID(t, body)

	for i := 0; i < 2; i++ {
		st, body = doReq(t, s.url, http.MethodPut, "/cancelarCita/"+id, "", nil)
		require.Equal(t, http.StatusOK, st)
		assert.Equal(t, "Cita cancelada con éxito", body["message"])
		assert.Equal(t, "CANCELLED", body["appointment"].(map[string]any)["status"])
	}

	st, body = doReq(t, s.url, http.MethodPut, "/cancelarCita/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, st)
	assert.Equal(t, "appointment_not_found", body["error_code"])

	st, body = doReq(t, s.url, http.MethodPut, "/cancelarCita/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, "invalid_id", body["error_code"])
}

func TestHTTP_Complete(t *testing.T) {
	s := newTestServer(t, "")

	st, body := s.create(t, s.petID, s.ownerID, "2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, st)
	id := appointmentID(t, body)

	st, body = doReq(t, s.url, http.MethodPut, "/completarCita/"+id, "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "COMPLETED", body["appointment"].(map[string]any)["status"])

	st, body = doReq(t, s.url, http.MethodPut, "/completarCita/"+id, "", nil)
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, "invalid_state", body["error_code"])
}

func TestHTTP_AuditTrail(t *testing.T) {
	s := newTestServer(t, "")

	st, body := s.create(t, s.petID, s.ownerID, "2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, st)
	id := appointmentID(t, body)

	st, _ = doReq(t, s.url, http.MethodPut, "/cancelarCita/"+id, "", nil)
	require.Equal(t, http.StatusOK, st)

	require.NoError(t, s.dispatch.Close(context.Background()))

	st, body = doReq(t, s.url, http.MethodGet, "/auditoria?entity=appointment", "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.EqualValues(t, 2, body["total"])

	st, body = doReq(t, s.url, http.MethodGet, "/auditoria?action=appointment_cancelled", "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.EqualValues(t, 1, body["total"])

	// (page-1)*limit would overflow int here
	st, body = doReq(t, s.url, http.MethodGet, "/auditoria?page=4611686018427387905&limit=2", "", nil)
	require.Equal(t, http.StatusOK, st, "body=%v", body)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 500001, body["page"])
	assert.Empty(t, body["logs"])
}

func TestHTTP_BearerGate(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, secret)

	sign := func(sub string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": sub,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	st, body := doReq(t, s.url, http.MethodGet, "/citasUsuario/"+s.ownerID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "missing_authorization_header", body["error_code"])

	st, body = doReq(t, s.url, http.MethodGet, "/citasUsuario/"+s.ownerID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "invalid_token", body["error_code"])

	st, _ = doReq(t, s.url, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)

	ownerToken := sign(s.ownerID)
	st, body = doReq(t, s.url, http.MethodPost, "/createAppointment", ownerToken, map[string]any{
		"date": "2024-03-10T09:00:00Z",
		"pet":  s.petID,
		"user": s.ownerID,
	})
	require.Equal(t, http.StatusOK, st, "body=%v", body)
	id := appointmentID(t, body)

	st, body = doReq(t, s.url, http.MethodPut, "/modificarCita", sign(s.otherID), map[string]any{
		"userId":        s.ownerID,
		"appointmentId": id,
		"status":        "COMPLETED",
	})
	assert.Equal(t, http.StatusForbidden, st)
	assert.Equal(t, "appointment_forbidden", body["error_code"])
}
