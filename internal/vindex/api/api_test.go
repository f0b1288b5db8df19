package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/pkg/apierror"
	"github.com/jimyag/vindex/pkg/ginx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockVolumeService 是 VolumeServiceInterface 的 mock 实现
type MockVolumeService struct {
	mock.Mock
}

func (m *MockVolumeService) ListIndexed(ctx context.Context) ([]entity.Volume, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Volume), args.Error(1)
}

// MockSessionService 是 SessionServiceInterface 的 mock 实现
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) ListSessions(ctx context.Context, req *entity.ListSessionsRequest) (*entity.ListSessionsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ListSessionsResponse), args.Error(1)
}

// MockCombineService 是 CombineServiceInterface 的 mock 实现
type MockCombineService struct {
	mock.Mock
}

func (m *MockCombineService) Summarize(ctx context.Context, req *entity.DescribeReportRequest) (*entity.DescribeReportResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DescribeReportResponse), args.Error(1)
}

func (m *MockCombineService) ListOutput(ctx context.Context, req *entity.ListOutputRequest) (*entity.ListOutputResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ListOutputResponse), args.Error(1)
}

func (m *MockCombineService) Stats(ctx context.Context) (*entity.IndexStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IndexStats), args.Error(1)
}

func newRouter(register func(*gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	engine.ContextWithFallback = true
	engine.Use(ginx.RequestLogger(zerolog.Nop()))
	register(engine.Group("/api"))
	return engine
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := &apierror.ErrorResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	require.NotEmpty(t, resp.Errors)
	return resp.Errors[0].Code
}

func TestNew(t *testing.T) {
	t.Parallel()

	api, err := New("127.0.0.1:0", zerolog.Nop(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", api.server.Addr)
	assert.Equal(t, "Query Server", api.Name())

	routes := make(map[string]bool)
	for _, route := range api.engine.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/health",
		"GET /api/volumes",
		"GET /api/sessions",
		"GET /api/report",
		"GET /api/output",
		"GET /api/stats",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	w := get(api.engine, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAPI_RunShutdown(t *testing.T) {
	t.Parallel()

	api, err := New("127.0.0.1:0", zerolog.Nop(), nil, nil, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- api.Run(context.Background())
	}()

	// Shutdown 可能先于 ListenAndServe 执行，两种情况下 Run 都返回 nil
	require.Eventually(t, func() bool {
		return api.Shutdown(context.Background()) == nil
	}, time.Second, 10*time.Millisecond)
	assert.NoError(t, <-done)
}

func TestVolume_ListVolumes(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		volumeService := new(MockVolumeService)
		volumeService.On("ListIndexed", mock.Anything).Return([]entity.Volume{
			{ID: 1, DeviceUniqueID: "Volume{d}", MountLetter: "D", Files: 10},
		}, nil)
		engine := newRouter(NewVolume(volumeService, nil).RegisterRoutes)

		w := get(engine, "/api/volumes")
		require.Equal(t, http.StatusOK, w.Code)

		resp := &entity.ListVolumesResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
		require.Len(t, resp.Volumes, 1)
		assert.Equal(t, "D", resp.Volumes[0].MountLetter)
		assert.Equal(t, int64(10), resp.Volumes[0].Files)
		volumeService.AssertExpectations(t)
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		volumeService := new(MockVolumeService)
		volumeService.On("ListIndexed", mock.Anything).Return(nil, assert.AnError)
		engine := newRouter(NewVolume(volumeService, nil).RegisterRoutes)

		w := get(engine, "/api/volumes")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "InternalError", errorCode(t, w))
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestVolume_ListSessions(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		target       string
		mockSetup    func(*MockSessionService)
		expectStatus int
		expectCode   string
	}{
		{
			name:   "filters by volume",
			target: "/api/sessions?volumeID=3&maxResults=5",
			mockSetup: func(m *MockSessionService) {
				m.On("ListSessions", mock.Anything, &entity.ListSessionsRequest{VolumeID: 3, MaxResults: 5}).
					Return(&entity.ListSessionsResponse{Sessions: []entity.Session{
						{ID: 99, VolumeID: 3, Status: "completed"},
					}}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name:         "negative max results",
			target:       "/api/sessions?maxResults=-1",
			mockSetup:    func(*MockSessionService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
		{
			name:         "malformed volume id",
			target:       "/api/sessions?volumeID=abc",
			mockSetup:    func(*MockSessionService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
		{
			name:   "service failure",
			target: "/api/sessions",
			mockSetup: func(m *MockSessionService) {
				m.On("ListSessions", mock.Anything, mock.Anything).Return(nil, assert.AnError)
			},
			expectStatus: http.StatusInternalServerError,
			expectCode:   "InternalError",
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sessionService := new(MockSessionService)
			tc.mockSetup(sessionService)
			engine := newRouter(NewVolume(nil, sessionService).RegisterRoutes)

			w := get(engine, tc.target)
			assert.Equal(t, tc.expectStatus, w.Code)
			if tc.expectCode != "" {
				assert.Equal(t, tc.expectCode, errorCode(t, w))
				return
			}

			resp := &entity.ListSessionsResponse{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
			require.Len(t, resp.Sessions, 1)
			assert.Equal(t, uint64(99), resp.Sessions[0].ID)
			sessionService.AssertExpectations(t)
		})
	}
}

func TestIndex_DescribeReport(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		target       string
		mockSetup    func(*MockCombineService)
		expectStatus int
		expectCode   string
	}{
		{
			name:   "report",
			target: "/api/report?topN=1",
			mockSetup: func(m *MockCombineService) {
				m.On("Summarize", mock.Anything, &entity.DescribeReportRequest{TopN: 1}).
					Return(&entity.DescribeReportResponse{Report: &entity.CombineReport{
						TotalFiles:         3,
						TotalOutputBytes:   300,
						DuplicateFileCount: 2,
						Groups:             []entity.GroupCount{{Path: "a/b", Count: 2}},
						TopGroups:          []entity.GroupCount{{Path: "a/b", Count: 2}},
					}}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name:   "empty index",
			target: "/api/report",
			mockSetup: func(m *MockCombineService) {
				m.On("Summarize", mock.Anything, mock.Anything).
					Return(&entity.DescribeReportResponse{Report: &entity.CombineReport{}}, nil)
			},
			expectStatus: http.StatusNotFound,
			expectCode:   "IndexNotFound",
		},
		{
			name:         "negative top",
			target:       "/api/report?topN=-5",
			mockSetup:    func(*MockCombineService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			combineService := new(MockCombineService)
			tc.mockSetup(combineService)
			engine := newRouter(NewIndex(combineService).RegisterRoutes)

			w := get(engine, tc.target)
			assert.Equal(t, tc.expectStatus, w.Code)
			if tc.expectCode != "" {
				assert.Equal(t, tc.expectCode, errorCode(t, w))
				return
			}

			assert.JSONEq(t, `{"report":{
				"totalFiles": 3,
				"totalOutputBytes": 300,
				"duplicateFileCount": 2,
				"topGroups": [{"path": "a/b", "count": 2}]
			}}`, w.Body.String())
		})
	}
}

func TestIndex_ListOutput(t *testing.T) {
	t.Parallel()

	size := int64(12)
	combineService := new(MockCombineService)
	combineService.On("ListOutput", mock.Anything, &entity.ListOutputRequest{Prefix: "docs/", MaxResults: 10}).
		Return(&entity.ListOutputResponse{Entries: []entity.OutputEntry{
			{FileID: 1, OutPath: "docs/a.txt", DeviceUniqueID: "Volume{d}", MountLetter: "D", SourcePath: "Docs/a.txt", Size: &size},
		}}, nil)
	engine := newRouter(NewIndex(combineService).RegisterRoutes)

	w := get(engine, "/api/output?prefix=docs/&maxResults=10")
	require.Equal(t, http.StatusOK, w.Code)

	resp := &entity.ListOutputResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "Docs/a.txt", resp.Entries[0].SourcePath)
	combineService.AssertExpectations(t)
}

func TestIndex_DescribeStats(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		combineService := new(MockCombineService)
		combineService.On("Stats", mock.Anything).Return(&entity.IndexStats{Files: 7, OutputFiles: 5}, nil)
		engine := newRouter(NewIndex(combineService).RegisterRoutes)

		w := get(engine, "/api/stats")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"files":7,"outputFiles":5}`, w.Body.String())
		combineService.AssertExpectations(t)
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		combineService := new(MockCombineService)
		combineService.On("Stats", mock.Anything).Return(nil, assert.AnError)
		engine := newRouter(NewIndex(combineService).RegisterRoutes)

		w := get(engine, "/api/stats")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "InternalError", errorCode(t, w))
	})
}
