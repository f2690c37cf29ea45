package auth

import (
	"github.com/spec-kit/query-service/internal/domain"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// Action identifies a gated operation on the query store.
type Action string

const (
	ActionCreateQuery     Action = "create_query"
	ActionListOwnQueries  Action = "list_own_queries"
	ActionListAllQueries  Action = "list_all_queries"
	ActionTransitionQuery Action = "transition_query"
	ActionViewReports     Action = "view_reports"
)

// Authorize is a pure allow/deny predicate over (identity, action, row
// owner). Clients may create queries under their own name and read their own
// rows; support may read everything, transition queries, and view reports.
// rowOwner is only consulted for actions scoped to a client's own rows.
func Authorize(identity domain.Identity, action Action, rowOwner string) error {
	switch identity.Role {
	case domain.RoleClient:
		switch action {
		case ActionCreateQuery, ActionListOwnQueries:
			if rowOwner != identity.Username {
				return apperrors.NewForbidden("clients may only access their own queries")
			}
			return nil
		}
	case domain.RoleSupport:
		switch action {
		case ActionListAllQueries, ActionTransitionQuery, ActionViewReports:
			return nil
		}
	}
	return apperrors.NewForbidden("operation not permitted for role")
}
