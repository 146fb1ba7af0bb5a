package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auragym/internal/adapters/http/middleware"
	"auragym/internal/application/orchestrators"
	"auragym/internal/application/projections"
	"auragym/internal/domain/meal"
	"auragym/internal/domain/workout"
)

type workoutView struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	Duration int       `json:"duration"`
	Calories int       `json:"calories"`
	Date     time.Time `json:"date"`
}

type mealView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Calories int       `json:"calories"`
	Date     time.Time `json:"date"`
}

type workoutRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Calories int    `json:"calories"`
}

type mealRequest struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

func workoutViews(list []workout.Workout) []workoutView {
	out := make([]workoutView, 0, len(list))
	for _, w := range list {
		out = append(out, workoutView{ID: w.ID, Title: w.Title, Type: w.Type, Duration: w.DurationMinutes, Calories: w.Calories, Date: w.LoggedAt})
	}
	return out
}

func mealViews(list []meal.Meal) []mealView {
	out := make([]mealView, 0, len(list))
	for _, m := range list {
		out = append(out, mealView{ID: m.ID, Name: m.Name, Calories: m.Calories, Date: m.LoggedAt})
	}
	return out
}

// handleMemberDashboard handles GET /member/dashboard
func (s *Server) handleMemberDashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	result, err := projections.QueryGetMemberDashboard(r.Context(), projections.GetMemberDashboardQuery{AccountID: id.AccountID}, projections.GetMemberDashboardDeps{
		AccountStore: s.stores.AccountStore,
		WorkoutStore: s.stores.WorkoutStore,
		MealStore:    s.stores.MealStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"workouts": workoutViews(result.Workouts),
			"meals":    mealViews(result.Meals),
		})
		return
	}
	s.render(w, r, http.StatusOK, "member.html", map[string]any{"Dashboard": result})
}

// handleListWorkouts handles GET /member/workouts
func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	list, err := s.stores.WorkoutStore.ListByAccount(r.Context(), id.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workoutViews(list)})
}

// handleLogWorkout handles POST /member/workouts with a JSON or form body.
func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var req workoutRequest
	if isJSONBody(r) {
		if err := strictDecode(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		duration, err := parseOptionalInt(r.FormValue("duration"))
		if err != nil {
			s.memberFormError(w, r, "duration must be a whole number")
			return
		}
		calories, err := parseOptionalInt(r.FormValue("calories"))
		if err != nil {
			s.memberFormError(w, r, "calories must be a whole number")
			return
		}
		req = workoutRequest{Title: r.FormValue("title"), Type: r.FormValue("type"), Duration: duration, Calories: calories}
	}

	list, err := orchestrators.ExecuteLogWorkout(r.Context(), orchestrators.LogWorkoutInput{
		AccountID:       id.AccountID,
		Title:           req.Title,
		Type:            req.Type,
		DurationMinutes: req.Duration,
		Calories:        req.Calories,
	}, s.workoutDeps())
	if err != nil {
		s.memberMutationError(w, r, err)
		return
	}
	if isJSONBody(r) || middleware.WantsJSON(r) {
		writeJSON(w, http.StatusCreated, map[string]any{"workouts": workoutViews(list)})
		return
	}
	s.flash.Set(w, middleware.FlashSuccess, "Workout logged.")
	http.Redirect(w, r, "/member/dashboard", http.StatusSeeOther)
}

// handleDeleteWorkout handles DELETE /member/workouts/{id} and its form fallback.
func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	list, err := orchestrators.ExecuteDeleteWorkout(r.Context(), orchestrators.DeleteWorkoutInput{
		AccountID: id.AccountID,
		WorkoutID: r.PathValue("id"),
	}, s.workoutDeps())
	if err != nil {
		s.memberMutationError(w, r, err)
		return
	}
	if r.Method == http.MethodDelete || middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"workouts": workoutViews(list)})
		return
	}
	s.flash.Set(w, middleware.FlashSuccess, "Workout deleted.")
	http.Redirect(w, r, "/member/dashboard", http.StatusSeeOther)
}

// handleListMeals handles GET /member/meals
func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	list, err := s.stores.MealStore.ListByAccount(r.Context(), id.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meals": mealViews(list)})
}

// handleLogMeal handles POST /member/meals with a JSON or form body.
func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var req mealRequest
	if isJSONBody(r) {
		if err := strictDecode(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		calories, err := parseOptionalInt(r.FormValue("calories"))
		if err != nil {
			s.memberFormError(w, r, "calories must be a whole number")
			return
		}
		req = mealRequest{Name: r.FormValue("name"), Calories: calories}
	}

	list, err := orchestrators.ExecuteLogMeal(r.Context(), orchestrators.LogMealInput{
		AccountID: id.AccountID,
		Name:      req.Name,
		Calories:  req.Calories,
	}, s.mealDeps())
	if err != nil {
		s.memberMutationError(w, r, err)
		return
	}
	if isJSONBody(r) || middleware.WantsJSON(r) {
		writeJSON(w, http.StatusCreated, map[string]any{"meals": mealViews(list)})
		return
	}
	s.flash.Set(w, middleware.FlashSuccess, "Meal logged.")
	http.Redirect(w, r, "/member/dashboard", http.StatusSeeOther)
}

// handleDeleteMeal handles DELETE /member/meals/{id} and its form fallback.
func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	list, err := orchestrators.ExecuteDeleteMeal(r.Context(), orchestrators.DeleteMealInput{
		AccountID: id.AccountID,
		MealID:    r.PathValue("id"),
	}, s.mealDeps())
	if err != nil {
		s.memberMutationError(w, r, err)
		return
	}
	if r.Method == http.MethodDelete || middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"meals": mealViews(list)})
		return
	}
	s.flash.Set(w, middleware.FlashSuccess, "Meal deleted.")
	http.Redirect(w, r, "/member/dashboard", http.StatusSeeOther)
}

// memberMutationError maps workout and meal flow errors to responses.
func (s *Server) memberMutationError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var msg string
	switch {
	case errors.Is(err, orchestrators.ErrValidationFailed):
		status, msg = http.StatusBadRequest, strings.TrimPrefix(err.Error(), orchestrators.ErrValidationFailed.Error()+": ")
	case errors.Is(err, orchestrators.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	default:
		internalError(w, err)
		return
	}
	if isJSONBody(r) || middleware.WantsJSON(r) || r.Method == http.MethodDelete {
		writeJSONError(w, status, msg)
		return
	}
	if status == http.StatusNotFound {
		http.NotFound(w, r)
		return
	}
	s.memberFormError(w, r, msg)
}

// memberFormError flashes a form problem and returns the member to the dashboard.
func (s *Server) memberFormError(w http.ResponseWriter, r *http.Request, msg string) {
	if isJSONBody(r) || middleware.WantsJSON(r) {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}
	s.flash.Set(w, middleware.FlashError, msg)
	http.Redirect(w, r, "/member/dashboard", http.StatusSeeOther)
}
