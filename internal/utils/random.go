package utils

import (
	"fmt"
	"math/rand"

	"github.com/theatreops/rota-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Heidi",
	"Ivan", "Judy", "Karl", "Liam", "Mia", "Noah", "Olivia", "Paul",
	"Quinn", "Rosa", "Sam", "Tara",
}

var lastNames = []string{
	"Smith", "Jones", "Lee", "Brown", "Davis", "Wilson", "Clark", "Lewis",
	"Young", "King",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	username := ""
	for _, r := range fullName {
		if r == ' ' {
			continue
		}
		username += string(r)
	}
	username = toLowerASCII(username)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}
	return username
}

func toLowerASCII(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

var roles = []domain.Role{domain.RoleAdmin, domain.RolePlanner, domain.RoleReadOnly}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}

// GenerateRandomTeam builds a synthetic roster of n people with a
// reasonable spread of the optional constraint flags (prefers_night,
// no_evening, max_nights, edo_eligible, contractor, weekend
// availability), the way the original implementation's pytest fixtures
// build a handful of named people covering each flag in turn, scaled up
// to an arbitrary team size for load tests and demo seeding.
func GenerateRandomTeam(n int) domain.TeamInput {
	people := make([]*domain.Person, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s-%d", firstNames[i%len(firstNames)], i)
		params := domain.PersonParams{
			Name:              name,
			WorkdaysPerWeek:   4 + rand.Intn(2),
			PrefersNight:      rand.Intn(4) == 0,
			NoEvening:         rand.Intn(6) == 0,
			EdoEligible:       rand.Intn(3) != 0,
			IsContractor:      rand.Intn(8) == 0,
			AvailableWeekends: rand.Intn(2) == 0,
		}
		if rand.Intn(5) == 0 {
			params.HasMaxNights = true
			params.MaxNights = uint32(rand.Intn(4))
		}
		if rand.Intn(4) == 0 {
			d := domain.WeekdayDays[rand.Intn(len(domain.WeekdayDays))]
			params.EdoFixedDay = &d
		}
		if rand.Intn(3) == 0 {
			params.Team = fmt.Sprintf("team-%d", i%3)
		}

		p, err := domain.NewPerson(params)
		if err != nil {
			continue
		}
		people = append(people, p)
	}
	return domain.TeamInput{People: people}
}

// GenerateRandomSolveConfig produces a config fixture around the
// engine's defaults, randomising only the knobs a demo/load run would
// plausibly vary.
func GenerateRandomSolveConfig(weeks int) domain.SolveConfig {
	cfg := domain.DefaultSolveConfig()
	cfg.Weeks = weeks
	cfg.Tries = 1 + rand.Intn(4)
	cfg.Seed = uint64(rand.Intn(1 << 20))
	return cfg
}
