package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/service"
)

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

func toGroupResponse(group *models.Group) groupResponse {
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		Members:   group.Members,
		CreatedAt: group.CreatedAt,
	}
}

func createGroupHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGroupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		group, err := svc.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Members)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGroupResponse(group))
	}
}

func getGroupHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, err := svc.Get(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGroupResponse(group))
	}
}

func listGroupsHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		resp := make([]groupResponse, 0, len(groups))
		for _, group := range groups {
			resp = append(resp, toGroupResponse(group))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

func addGroupMembersHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addMembersRequest
		if !decodeBody(w, r, &req) {
			return
		}
		group, err := svc.AddMembers(r.Context(),
			chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req.Members)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGroupResponse(group))
	}
}
