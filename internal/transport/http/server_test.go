package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"showcase/internal/domain/models"
	"showcase/internal/storage"
	"showcase/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, input dto.EventInput, file *multipart.FileHeader) (*models.Event, error) {
	args := m.Called(ctx, input, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, id uuid.UUID, input dto.EventInput, file *multipart.FileHeader) (*models.Event, error) {
	args := m.Called(ctx, id, input, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) ListGalleries(ctx context.Context) ([]models.Gallery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockGalleryService) CreateGallery(ctx context.Context, input dto.GalleryInput, files []*multipart.FileHeader) (*models.Gallery, error) {
	args := m.Called(ctx, input, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gallery), args.Error(1)
}

func (m *MockGalleryService) UpdateGallery(ctx context.Context, id uuid.UUID, input dto.GalleryInput, files []*multipart.FileHeader) (*models.Gallery, error) {
	args := m.Called(ctx, id, input, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gallery), args.Error(1)
}

func (m *MockGalleryService) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func newTestRouters(events *MockEventService, galleries *MockGalleryService) *Routers {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(log, events, galleries, nil, nil)
}

// multipartBody builds a multipart form with text fields plus optional file
// parts, each given as fieldName->filenames.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}

	for field, names := range files {
		for _, filename := range names {
			part, err := writer.CreateFormFile(field, filename)
			require.NoError(t, err)
			_, err = part.Write([]byte("image bytes"))
			require.NoError(t, err)
		}
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestListEvents(t *testing.T) {
	t.Run("returns events as a json array", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("ListEvents", mock.Anything).Return([]models.Event{
			{ID: uuid.New(), Title: "Hack Night"},
		}, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, r.ListEvents(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got []models.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Hack Night", got[0].Title)
	})

	t.Run("empty store returns an empty array, not null", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("ListEvents", mock.Anything).Return([]models.Event{}, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, r.ListEvents(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("service failure maps to 500", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("ListEvents", mock.Anything).Return(nil, errors.New("connection reset"))

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, r.ListEvents(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("valid multipart request returns 201", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		created := &models.Event{ID: uuid.New(), Title: "Hack Night"}
		events.On("CreateEvent", mock.Anything, mock.MatchedBy(func(in dto.EventInput) bool {
			return in.Title == "Hack Night" && in.Date == "2024-03-01"
		}), mock.Anything).Return(created, nil)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "2024-03-01"},
			map[string][]string{"imageFile": {"poster.jpg"}},
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateEvent(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)

		events.AssertExpectations(t)
	})

	t.Run("file part is forwarded to the service", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("CreateEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(f *multipart.FileHeader) bool {
			return f != nil && f.Filename == "poster.jpg"
		})).Return(&models.Event{ID: uuid.New()}, nil)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "2024-03-01"},
			map[string][]string{"imageFile": {"poster.jpg"}},
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateEvent(e.NewContext(req, rec)))
		events.AssertExpectations(t)
	})

	t.Run("missing file part passes nil through", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("CreateEvent", mock.Anything, mock.Anything, (*multipart.FileHeader)(nil)).
			Return(&models.Event{ID: uuid.New()}, nil)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "2024-03-01"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateEvent(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing title fails fast with 400", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		body, contentType := multipartBody(t,
			map[string]string{"date": "2024-03-01"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateEvent(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unparseable date maps to 400", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, dto.ErrInvalidDate)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "March 1st"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateEvent(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service failure maps to 500", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		events.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "2024-03-01"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateEvent(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Run("malformed id maps to 400 without touching the service", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "2024-03-01"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPut, "/events/not-a-uuid", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/events/:id")
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		require.NoError(t, r.UpdateEvent(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		events.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		id := uuid.New()
		events.On("UpdateEvent", mock.Anything, id, mock.Anything, mock.Anything).
			Return(nil, storage.ErrEventNotFound)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Hack Night", "date": "2024-03-01"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPut, "/events/"+id.String(), body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/events/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.UpdateEvent(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("successful update returns the new record", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		id := uuid.New()
		events.On("UpdateEvent", mock.Anything, id, mock.Anything, mock.Anything).
			Return(&models.Event{ID: id, Title: "Renamed"}, nil)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Renamed", "date": "2024-03-01"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPut, "/events/"+id.String(), body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/events/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.UpdateEvent(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Renamed", got.Title)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("successful delete carries the confirmation message", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		id := uuid.New()
		events.On("DeleteEvent", mock.Anything, id).Return(nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/events/"+id.String(), nil)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/events/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.DeleteEvent(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Event and associated image deleted successfully")
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		id := uuid.New()
		events.On("DeleteEvent", mock.Anything, id).Return(storage.ErrEventNotFound)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/events/"+id.String(), nil)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/events/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.DeleteEvent(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		events := new(MockEventService)
		r := newTestRouters(events, new(MockGalleryService))

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/events/123", nil)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/events/:id")
		c.SetParamNames("id")
		c.SetParamValues("123")

		require.NoError(t, r.DeleteEvent(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateGallery(t *testing.T) {
	t.Run("all file parts are forwarded in order", func(t *testing.T) {
		galleries := new(MockGalleryService)
		r := newTestRouters(new(MockEventService), galleries)

		galleries.On("CreateGallery", mock.Anything, mock.Anything, mock.MatchedBy(func(files []*multipart.FileHeader) bool {
			return len(files) == 2 && files[0].Filename == "a.jpg" && files[1].Filename == "b.jpg"
		})).Return(&models.Gallery{ID: uuid.New(), Images: []string{}}, nil)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Open Day", "date": "2024-05-10"},
			map[string][]string{"images": {"a.jpg", "b.jpg"}},
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/galleries", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateGallery(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)

		galleries.AssertExpectations(t)
	})

	t.Run("no file parts is accepted", func(t *testing.T) {
		galleries := new(MockGalleryService)
		r := newTestRouters(new(MockEventService), galleries)

		galleries.On("CreateGallery", mock.Anything, mock.Anything, mock.MatchedBy(func(files []*multipart.FileHeader) bool {
			return len(files) == 0
		})).Return(&models.Gallery{ID: uuid.New(), Images: []string{}}, nil)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Open Day", "date": "2024-05-10"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/galleries", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateGallery(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing date fails fast with 400", func(t *testing.T) {
		galleries := new(MockGalleryService)
		r := newTestRouters(new(MockEventService), galleries)

		body, contentType := multipartBody(t,
			map[string]string{"title": "Open Day"},
			nil,
		)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/galleries", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		require.NoError(t, r.CreateGallery(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		galleries.AssertNotCalled(t, "CreateGallery", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteGallery(t *testing.T) {
	t.Run("successful delete carries the confirmation message", func(t *testing.T) {
		galleries := new(MockGalleryService)
		r := newTestRouters(new(MockEventService), galleries)

		id := uuid.New()
		galleries.On("DeleteGallery", mock.Anything, id).Return(nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/galleries/"+id.String(), nil)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/galleries/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.DeleteGallery(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Gallery and associated images deleted successfully")
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		galleries := new(MockGalleryService)
		r := newTestRouters(new(MockEventService), galleries)

		id := uuid.New()
		galleries.On("DeleteGallery", mock.Anything, id).Return(storage.ErrGalleryNotFound)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/galleries/"+id.String(), nil)
		rec := httptest.NewRecorder()

		c := e.NewContext(req, rec)
		c.SetPath("/galleries/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.DeleteGallery(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy database reports ok", func(t *testing.T) {
		db := new(MockHealthChecker)
		db.On("HealthCheck", mock.Anything).Return(nil)

		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		r := NewRouter(log, new(MockEventService), new(MockGalleryService), db, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, r.Health(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unreachable database reports 503", func(t *testing.T) {
		db := new(MockHealthChecker)
		db.On("HealthCheck", mock.Anything).Return(errors.New("dial tcp: connection refused"))

		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		r := NewRouter(log, new(MockEventService), new(MockGalleryService), db, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, r.Health(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("degraded cache does not fail the check", func(t *testing.T) {
		db := new(MockHealthChecker)
		db.On("HealthCheck", mock.Anything).Return(nil)

		cache := new(MockHealthChecker)
		cache.On("HealthCheck", mock.Anything).Return(errors.New("dial tcp: connection refused"))

		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		r := NewRouter(log, new(MockEventService), new(MockGalleryService), db, cache)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, r.Health(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
