package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/domain"
	domainerrors "github.com/Fabioalbuqueque/pregacao/internal/errors"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
)

func (s *Server) registerOutlineRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOutlines",
		Method:      http.MethodGet,
		Path:        "/api/v1/outlines",
		Summary:     "List outlines",
		Description: "Returns all sermon outlines, most recently updated first",
		Tags:        []string{"Outlines"},
	}, s.handleListOutlines)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createOutline",
		Method:        http.MethodPost,
		Path:          "/api/v1/outlines",
		Summary:       "Create outline",
		Description:   "Creates a sermon outline",
		Tags:          []string{"Outlines"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateOutline)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOutline",
		Method:      http.MethodGet,
		Path:        "/api/v1/outlines/{id}",
		Summary:     "Get outline",
		Description: "Returns a sermon outline with its topics",
		Tags:        []string{"Outlines"},
	}, s.handleGetOutline)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateOutline",
		Method:      http.MethodPatch,
		Path:        "/api/v1/outlines/{id}",
		Summary:     "Update outline",
		Description: "Changes the fields present in the body",
		Tags:        []string{"Outlines"},
	}, s.handleUpdateOutline)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOutline",
		Method:      http.MethodDelete,
		Path:        "/api/v1/outlines/{id}",
		Summary:     "Delete outline",
		Description: "Deletes a sermon outline",
		Tags:        []string{"Outlines"},
	}, s.handleDeleteOutline)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addOutlineTopic",
		Method:        http.MethodPost,
		Path:          "/api/v1/outlines/{id}/topics",
		Summary:       "Add topic",
		Description:   "Adds a verse to the top of the outline's topics",
		Tags:          []string{"Outlines"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddTopic)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeOutlineTopic",
		Method:      http.MethodDelete,
		Path:        "/api/v1/outlines/{id}/topics/{index}",
		Summary:     "Remove topic",
		Description: "Removes the topic at index; an index out of range leaves the topics unchanged",
		Tags:        []string{"Outlines"},
	}, s.handleRemoveTopic)
}

// OutlineIDInput identifies an outline.
type OutlineIDInput struct {
	ID string `path:"id" maxLength:"64" doc:"Outline ID"`
}

// CreateOutlineInput wraps the create request.
type CreateOutlineInput struct {
	Body service.CreateOutlineRequest
}

// UpdateOutlineInput wraps the update request.
type UpdateOutlineInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Outline ID"`
	Body service.UpdateOutlineRequest
}

// AddTopicInput wraps the add topic request.
type AddTopicInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Outline ID"`
	Body service.AddTopicRequest
}

// RemoveTopicInput identifies a topic by position.
type RemoveTopicInput struct {
	ID    string `path:"id" maxLength:"64" doc:"Outline ID"`
	Index int    `path:"index" minimum:"0" doc:"Zero-based topic position"`
}

// OutlineOutput wraps one outline.
type OutlineOutput struct {
	Body *domain.Outline
}

// ListOutlinesOutput wraps the outline list.
type ListOutlinesOutput struct {
	Body struct {
		Outlines []*domain.Outline `json:"outlines"`
	}
}

func (s *Server) outlines() (*service.OutlineService, error) {
	if s.services.Outlines == nil {
		return nil, domainerrors.Unavailable("outlines are not configured")
	}
	return s.services.Outlines, nil
}

func (s *Server) handleListOutlines(ctx context.Context, _ *struct{}) (*ListOutlinesOutput, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	list, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListOutlinesOutput{}
	out.Body.Outlines = list
	if out.Body.Outlines == nil {
		out.Body.Outlines = []*domain.Outline{}
	}
	return out, nil
}

func (s *Server) handleCreateOutline(ctx context.Context, input *CreateOutlineInput) (*OutlineOutput, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	o, err := svc.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &OutlineOutput{Body: o}, nil
}

func (s *Server) handleGetOutline(ctx context.Context, input *OutlineIDInput) (*OutlineOutput, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	o, err := svc.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OutlineOutput{Body: o}, nil
}

func (s *Server) handleUpdateOutline(ctx context.Context, input *UpdateOutlineInput) (*OutlineOutput, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	o, err := svc.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &OutlineOutput{Body: o}, nil
}

func (s *Server) handleDeleteOutline(ctx context.Context, input *OutlineIDInput) (*struct{}, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	if err := svc.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleAddTopic(ctx context.Context, input *AddTopicInput) (*OutlineOutput, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	o, err := svc.AddTopic(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &OutlineOutput{Body: o}, nil
}

func (s *Server) handleRemoveTopic(ctx context.Context, input *RemoveTopicInput) (*OutlineOutput, error) {
	svc, err := s.outlines()
	if err != nil {
		return nil, err
	}

	o, err := svc.RemoveTopic(ctx, input.ID, input.Index)
	if err != nil {
		return nil, err
	}
	return &OutlineOutput{Body: o}, nil
}
