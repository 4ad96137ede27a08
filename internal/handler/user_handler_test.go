package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminlte-api/internal/dto"
	"adminlte-api/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupUserRouter(m *MockUserService) *gin.Engine {
	h := NewUserHandler(m, nil)
	r := gin.New()
	r.GET("/users", h.ListUsers)
	r.GET("/users/count", h.CountUsers)
	r.GET("/users/:id", h.GetUser)
	r.POST("/users", h.CreateUser)
	r.PUT("/users", h.UpsertUser)
	r.PUT("/users/:id", h.ReplaceUser)
	r.PATCH("/users/:id", h.PatchUser)
	r.DELETE("/users/:id", h.DeleteUser)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	dataBytes, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(dataBytes, out))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errorData, ok := resp.Error.(map[string]interface{})
	require.True(t, ok, "Error field is not a map")
	code, _ := errorData["code"].(string)
	return code
}

func TestUserHandler_CreateUser(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mock           func(*MockUserService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "created",
			body: dto.CreateUserRequest{Name: "Alice"},
			mock: func(m *MockUserService) {
				m.CreateUserFunc = func(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
					return &dto.UserResponse{ID: 1, Name: req.Name}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           "invalid json",
			mock:           func(m *MockUserService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   response.ErrCodeValidation,
		},
		{
			name:           "missing name",
			body:           map[string]interface{}{"email": "a@example.com"},
			mock:           func(m *MockUserService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   response.ErrCodeValidation,
		},
		{
			name:           "invalid email",
			body:           map[string]interface{}{"name": "A", "email": "not-an-email"},
			mock:           func(m *MockUserService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   response.ErrCodeValidation,
		},
		{
			name: "conflict",
			body: dto.CreateUserRequest{Name: "Dup"},
			mock: func(m *MockUserService) {
				m.CreateUserFunc = func(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
					return nil, response.NewConflictError("User conflicts with existing data", "")
				}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   response.ErrCodeConflict,
		},
		{
			name: "unexpected error",
			body: dto.CreateUserRequest{Name: "Boom"},
			mock: func(m *MockUserService) {
				m.CreateUserFunc = func(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
					return nil, errors.New("boom")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   response.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockUserService{}
			tt.mock(m)
			w := doJSON(setupUserRouter(m), http.MethodPost, "/users", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
			}
		})
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	m := &MockUserService{
		GetUserFunc: func(ctx context.Context, id int, includeRole bool) (*dto.UserResponse, error) {
			if id != 7 {
				return nil, response.NewNotFoundError("User not found", "")
			}
			resp := &dto.UserResponse{ID: id, Name: "Seven"}
			if includeRole {
				resp.Role = &dto.RoleResponse{ID: 1, Name: "admin"}
			}
			return resp, nil
		},
	}
	r := setupUserRouter(m)

	w := doJSON(r, http.MethodGet, "/users/7?include=role", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user dto.UserResponse
	decodeData(t, w, &user)
	assert.Equal(t, "Seven", user.Name)
	require.NotNil(t, user.Role)
	assert.Equal(t, "admin", user.Role.Name)

	w = doJSON(r, http.MethodGet, "/users/8", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrCodeNotFound, errorCode(t, w))

	w = doJSON(r, http.MethodGet, "/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/users/-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_ListUsers(t *testing.T) {
	var got *dto.UserFilters
	m := &MockUserService{
		ListUsersFunc: func(ctx context.Context, filters *dto.UserFilters) (*dto.UserListResponse, error) {
			got = filters
			return &dto.UserListResponse{
				Items:      []*dto.UserResponse{{ID: 1, Name: "ann"}},
				TotalCount: 1,
				Page:       filters.Page,
				Size:       filters.Size,
			}, nil
		},
	}
	r := setupUserRouter(m)

	w := doJSON(r, http.MethodGet, "/users?name=an&page=2&size=5&sort=-name&include=role", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "an", got.Name)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Size)
	assert.Equal(t, "-name", got.Sort)
	assert.True(t, got.IncludeRole())

	var page dto.UserListResponse
	decodeData(t, w, &page)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Items, 1)

	w = doJSON(r, http.MethodGet, "/users?size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/users?include=manager", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_CountUsers(t *testing.T) {
	m := &MockUserService{
		CountUsersFunc: func(ctx context.Context, name string) (int64, error) {
			if name == "slow" {
				return 0, response.NewAppError(response.ErrCodeCancelled, "Request cancelled", "")
			}
			return 42, nil
		},
	}
	r := setupUserRouter(m)

	w := doJSON(r, http.MethodGet, "/users/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count dto.CountResponse
	decodeData(t, w, &count)
	assert.Equal(t, int64(42), count.Count)

	w = doJSON(r, http.MethodGet, "/users/count?name=slow", nil)
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Equal(t, response.ErrCodeCancelled, errorCode(t, w))
}

func TestUserHandler_ReplaceAndPatch(t *testing.T) {
	m := &MockUserService{
		ReplaceUserFunc: func(ctx context.Context, id int, req *dto.ReplaceUserRequest) (*dto.UserResponse, error) {
			return &dto.UserResponse{ID: id, Name: req.Name}, nil
		},
		PatchUserFunc: func(ctx context.Context, id int, req *dto.PatchUserRequest) (*dto.UserResponse, error) {
			return &dto.UserResponse{ID: id, Name: *req.Name}, nil
		},
	}
	r := setupUserRouter(m)

	w := doJSON(r, http.MethodPut, "/users/3", dto.ReplaceUserRequest{Name: "Whole"})
	require.Equal(t, http.StatusOK, w.Code)
	var user dto.UserResponse
	decodeData(t, w, &user)
	assert.Equal(t, 3, user.ID)
	assert.Equal(t, "Whole", user.Name)

	w = doJSON(r, http.MethodPatch, "/users/3", map[string]interface{}{"name": "Part"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &user)
	assert.Equal(t, "Part", user.Name)

	w = doJSON(r, http.MethodPut, "/users/3", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/users/x", map[string]interface{}{"name": "Part"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_UpsertUser(t *testing.T) {
	m := &MockUserService{
		UpsertUserFunc: func(ctx context.Context, req *dto.UpsertUserRequest) (*dto.UserResponse, bool, error) {
			if req.ID == 0 {
				return &dto.UserResponse{ID: 10, Name: req.Name}, true, nil
			}
			return &dto.UserResponse{ID: req.ID, Name: req.Name}, false, nil
		},
	}
	r := setupUserRouter(m)

	w := doJSON(r, http.MethodPut, "/users", dto.UpsertUserRequest{Name: "New"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPut, "/users", dto.UpsertUserRequest{ID: 10, Name: "Again"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	m := &MockUserService{
		DeleteUserFunc: func(ctx context.Context, id int) error {
			if id == 1 {
				return nil
			}
			return response.NewNotFoundError("User not found", "")
		},
	}
	r := setupUserRouter(m)

	w := doJSON(r, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, "/users/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		response.ErrCodeNotFound:     http.StatusNotFound,
		response.ErrCodeConflict:     http.StatusConflict,
		response.ErrCodeValidation:   http.StatusBadRequest,
		response.ErrCodeUnauthorized: http.StatusUnauthorized,
		response.ErrCodeForbidden:    http.StatusForbidden,
		response.ErrCodeCancelled:    http.StatusRequestTimeout,
		response.ErrCodeInternal:     http.StatusInternalServerError,
		"SOMETHING_ELSE":             http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, mapErrorCodeToHTTPStatus(code), code)
	}
}
