package models

import (
	"quest/src/utils"

	"github.com/google/uuid"
)

// Requests
type LoginDTO struct {
	Username string `form:"username" json:"username" binding:"required,max=150,username"`
	Password string `form:"password" json:"password" binding:"required,max=512"`
	Next     string `form:"next" json:"next"`
}

// Responses
type GoalCompletionsDTO struct {
	Id             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	CompletedTasks int       `json:"completedTasks"`
}

func (g GoalWithCompletions) ToDTO() GoalCompletionsDTO {
	return GoalCompletionsDTO{
		Id:             g.Id,
		Name:           g.Name,
		Slug:           utils.GoalSlug(g.Slug, g.Name),
		CompletedTasks: g.CompletedTasks,
	}
}

type OtherStatDTO struct {
	Name string `json:"name"`
	Stat int    `json:"stat"`
}

func (s OtherStat) ToDTO() OtherStatDTO {
	return OtherStatDTO(s)
}

type GoalDashboardDTO struct {
	Goals      []GoalCompletionsDTO `json:"goals"`
	OtherStats []OtherStatDTO       `json:"otherStats,omitempty"`
}

func GoalDashboardToDTO(goals []GoalWithCompletions, stats []OtherStat) GoalDashboardDTO {
	dto := GoalDashboardDTO{
		Goals: make([]GoalCompletionsDTO, len(goals)),
	}
	for i, g := range goals {
		dto.Goals[i] = g.ToDTO()
	}

	if len(stats) > 0 {
		dto.OtherStats = make([]OtherStatDTO, len(stats))
		for i, s := range stats {
			dto.OtherStats[i] = s.ToDTO()
		}
	}
	return dto
}

type UserDTO struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"isAdmin"`
}

func (u User) ToDTO() UserDTO {
	return UserDTO{
		Id:       u.Id,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}
