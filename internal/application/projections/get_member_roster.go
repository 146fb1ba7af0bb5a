package projections

import (
	"context"
	"time"

	accountstore "auragym/internal/adapters/storage/account"
	domainAccount "auragym/internal/domain/account"
)

// GetMemberRosterQuery carries query parameters.
type GetMemberRosterQuery struct {
	Limit  int // zero means all
	Offset int
}

// RosterEntry is one member row on the admin dashboard.
type RosterEntry struct {
	ID           string
	DisplayName  string
	Email        string
	Age          int
	Gender       string
	Goal         string
	WorkoutCount int
	MealCount    int
	JoinedAt     time.Time
}

// GetMemberRosterResult carries the query result.
type GetMemberRosterResult struct {
	Members       []RosterEntry
	Total         int // all members, not just this window
	TotalWorkouts int
	TotalMeals    int
}

// GetMemberRosterDeps holds dependencies for GetMemberRoster.
type GetMemberRosterDeps struct {
	AccountStore AccountStore
	WorkoutStore WorkoutStore
	MealStore    MealStore
}

// QueryGetMemberRoster lists member accounts with their activity counts.
// PRE: Caller is an authenticated admin
// POST: Returns members newest first; admin accounts are never included
func QueryGetMemberRoster(ctx context.Context, query GetMemberRosterQuery, deps GetMemberRosterDeps) (GetMemberRosterResult, error) {
	total, err := deps.AccountStore.Count(ctx, domainAccount.RoleMember)
	if err != nil {
		return GetMemberRosterResult{}, err
	}
	members, err := deps.AccountStore.List(ctx, accountstore.ListFilter{
		Role:   domainAccount.RoleMember,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return GetMemberRosterResult{}, err
	}

	workouts, err := deps.WorkoutStore.CountByAccount(ctx)
	if err != nil {
		return GetMemberRosterResult{}, err
	}
	meals, err := deps.MealStore.CountByAccount(ctx)
	if err != nil {
		return GetMemberRosterResult{}, err
	}

	result := GetMemberRosterResult{Members: make([]RosterEntry, 0, len(members)), Total: total}
	for _, m := range members {
		entry := RosterEntry{
			ID:           m.ID,
			DisplayName:  m.DisplayName,
			Email:        m.Email,
			Age:          m.Profile.Age,
			Gender:       m.Profile.Gender,
			Goal:         m.Profile.Goal,
			WorkoutCount: workouts[m.ID],
			MealCount:    meals[m.ID],
			JoinedAt:     m.CreatedAt,
		}
		result.TotalWorkouts += entry.WorkoutCount
		result.TotalMeals += entry.MealCount
		result.Members = append(result.Members, entry)
	}
	return result, nil
}
