package engine

import (
	"context"
	"fmt"
	"strings"

	"auralife/internal/storage"
)

type ProjectStatus string

const (
	ProjectIdea   ProjectStatus = "idea"
	ProjectActive ProjectStatus = "active"
	ProjectDone   ProjectStatus = "done"
)

const (
	projectDoneXP          = 50
	defaultProjectPriority = 5
	defaultProjectCategory = "general"
)

func ParseProjectStatus(input string) (ProjectStatus, error) {
	st := ProjectStatus(strings.TrimSpace(strings.ToLower(input)))
	switch st {
	case ProjectIdea, ProjectActive, ProjectDone:
		return st, nil
	default:
		return "", fmt.Errorf("invalid project status: %q", input)
	}
}

type ProjectInput struct {
	Title       string
	Description string
	Category    string
	Priority    int
	Status      ProjectStatus
}

func (s *Service) CreateProject(ctx context.Context, p ProfileKey, in ProjectInput) (int64, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return 0, err
	}
	if in.Status == "" {
		in.Status = ProjectIdea
	}
	if in.Status == ProjectDone {
		return 0, fmt.Errorf("new projects cannot start as %q", ProjectDone)
	}
	if _, err := ParseProjectStatus(string(in.Status)); err != nil {
		return 0, err
	}
	if in.Priority == 0 {
		in.Priority = defaultProjectPriority
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = defaultProjectCategory
	}

	var id int64
	err = s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		id, err = r.Projects.Insert(ctx, storage.Project{
			ProfileKey:  string(p),
			Title:       title,
			Description: in.Description,
			Status:      string(in.Status),
			Priority:    in.Priority,
			Category:    in.Category,
			CreatedAt:   s.now(),
		})
		return err
	})
	return id, err
}

// SetProjectStatus moves a project between idea and active. Use
// CompleteProject to finish one; done projects stay done.
func (s *Service) SetProjectStatus(ctx context.Context, p ProfileKey, projectID int64, status ProjectStatus) error {
	if status == ProjectDone {
		return fmt.Errorf("use CompleteProject to mark project %d done", projectID)
	}
	if _, err := ParseProjectStatus(string(status)); err != nil {
		return err
	}
	return s.withProfile(ctx, p, func(r *storage.Repos) error {
		pr, err := r.Projects.Get(ctx, string(p), projectID)
		if err != nil {
			return err
		}
		if pr == nil {
			return NotFoundError{Kind: "project", ID: projectID}
		}
		if pr.Status == string(ProjectDone) {
			return fmt.Errorf("project %d is already done", projectID)
		}
		return r.Projects.UpdateStatus(ctx, string(p), projectID, string(status))
	})
}

// CompleteProject marks the project done and pays the Business reward once.
func (s *Service) CompleteProject(ctx context.Context, p ProfileKey, projectID int64) (ActivityResult, error) {
	res := ActivityResult{ID: projectID}
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		pr, err := r.Projects.Get(ctx, string(p), projectID)
		if err != nil {
			return err
		}
		if pr == nil {
			return NotFoundError{Kind: "project", ID: projectID}
		}
		ok, err := r.Projects.MarkDone(ctx, string(p), projectID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		res.Applied = true
		if res.Award, err = s.award(ctx, r, p, projectDoneXP, "Projet: "+pr.Title, SkillBusiness); err != nil {
			return err
		}
		res.Unlocked, err = s.evaluate(ctx, r, p)
		return err
	})
	return res, err
}

func (s *Service) Projects(ctx context.Context, p ProfileKey) ([]storage.Project, error) {
	var out []storage.Project
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = r.Projects.List(ctx, string(p))
		return err
	})
	return out, err
}
