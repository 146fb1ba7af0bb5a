package web

import (
	"net/http"
	"time"

	"auragym/internal/adapters/http/middleware"
	"auragym/internal/application/listutil"
	"auragym/internal/application/projections"
)

type rosterView struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	Age          int       `json:"age,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Goal         string    `json:"goal,omitempty"`
	WorkoutCount int       `json:"workoutCount"`
	MealCount    int       `json:"mealCount"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// handleAdminDashboard handles GET /admin/dashboard?page=&per_page=
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseParams(r.URL.Query())
	result, err := projections.QueryGetMemberRoster(r.Context(), projections.GetMemberRosterQuery{
		Limit:  params.Limit(),
		Offset: params.Offset(),
	}, projections.GetMemberRosterDeps{
		AccountStore: s.stores.AccountStore,
		WorkoutStore: s.stores.WorkoutStore,
		MealStore:    s.stores.MealStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	pager := listutil.NewInfo(params, result.Total)

	if middleware.WantsJSON(r) {
		members := make([]rosterView, 0, len(result.Members))
		for _, m := range result.Members {
			members = append(members, rosterView(m))
		}
		writeJSON(w, http.StatusOK, map[string]any{"members": members, "page": pager})
		return
	}
	s.render(w, r, http.StatusOK, "admin.html", map[string]any{"Roster": result, "Page": pager})
}
