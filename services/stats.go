package services

import (
	"context"

	"go.uber.org/multierr"

	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

// Stats are the site-wide totals.
type Stats struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// StatsService counts users, posts and comments.
type StatsService struct {
	accounts store.AccountStore
	content  store.ContentStore
}

// NewStatsService builds a StatsService.
func NewStatsService(accounts store.AccountStore, content store.ContentStore) *StatsService {
	return &StatsService{accounts: accounts, content: content}
}

// Totals returns the current counts.
func (s *StatsService) Totals(ctx context.Context) (Stats, error) {
	var (
		st   Stats
		errs error
		err  error
	)
	st.Users, err = s.accounts.CountUsers(ctx)
	errs = multierr.Append(errs, err)
	st.Posts, err = s.content.CountPosts(ctx)
	errs = multierr.Append(errs, err)
	st.Comments, err = s.content.CountComments(ctx)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return Stats{}, utils.Internal(errs, "Failed to load stats.")
	}
	return st, nil
}
