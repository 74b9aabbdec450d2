package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/anomaly-gateway/internal/logging"
)

// ListUsersResponseBody is the response body for listing users.
type ListUsersResponseBody struct {
	Users []string `json:"users" doc:"User UUIDs known to the anomaly detection service"`
}

// ListUsersOutput is the Huma output for listing users.
type ListUsersOutput struct {
	Body ListUsersResponseBody
}

type userLister interface {
	ListUsers(ctx context.Context) ([]string, bool)
}

// ListUsersHandler handles GET /v1/users.
type ListUsersHandler struct {
	Lister userLister
}

func NewListUsersHandler(lister userLister) *ListUsersHandler {
	return &ListUsersHandler{Lister: lister}
}

// Register registers the list users endpoint with the Huma API.
func (h *ListUsersHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/v1/users",
		Summary:     "List users",
		Description: "Returns the user identifiers known to the anomaly detection service.",
		Tags:        []string{"Users"},
	}, h.handle)
}

func (h *ListUsersHandler) handle(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	users, ok := h.Lister.ListUsers(ctx)
	if !ok {
		return nil, huma.NewError(http.StatusBadGateway, "failed to list users from upstream")
	}

	if users == nil {
		users = []string{}
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userCount", len(users))
	}

	return &ListUsersOutput{Body: ListUsersResponseBody{Users: users}}, nil
}
