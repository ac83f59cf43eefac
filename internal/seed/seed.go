// Package seed inserts synthetic fixtures (C15): random accounts for the
// auth system. Random team rosters and solve configs come from
// utils.GenerateRandomTeam and utils.GenerateRandomSolveConfig.
package seed

import (
	"log/slog"

	"github.com/theatreops/rota-backend/internal/repository"
	"github.com/theatreops/rota-backend/internal/utils"
)

// Users inserts n random accounts, logging and skipping any that fail
// to insert (e.g. a generated username collision) rather than aborting
// the whole batch.
func Users(repo *repository.Repository, n int, password, emailDomain string) int {
	inserted := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain)
		if err != nil {
			slog.Error("无法生成随机用户", "error", err)
			continue
		}
		if err := repo.CreateUser(user); err != nil {
			slog.Error("无法插入用户", "error", err)
			continue
		}
		inserted++
	}
	return inserted
}
