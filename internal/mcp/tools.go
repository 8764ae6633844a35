package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/promptvault/promptvault/pkg/vault"
)

// PromptListInput filters the prompt listing.
type PromptListInput struct {
	FolderID      *int64 `json:"folder_id,omitempty"`
	Tag           string `json:"tag,omitempty"`
	FavoritesOnly bool   `json:"favorites_only,omitempty"`
}

// PromptListOutput is the prompt_list result.
type PromptListOutput struct {
	Prompts []PromptInfo `json:"prompts"`
}

// PromptInfo is prompt metadata. Never carries locked content.
type PromptInfo struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	FolderID     *int64   `json:"folder_id,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	IsFavorite   bool     `json:"is_favorite"`
	LockState    string   `json:"lock_state"`
	DateModified int64    `json:"date_modified"`
}

// PromptGetInput identifies a prompt.
type PromptGetInput struct {
	ID int64 `json:"id"`
}

// PromptGetOutput is the prompt_get result. Body and Notes are empty for
// locked prompts.
type PromptGetOutput struct {
	PromptInfo
	Body   string `json:"body,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Locked bool   `json:"locked"`
}

// FolderListOutput is the folder_list result.
type FolderListOutput struct {
	Folders []FolderInfo `json:"folders"`
}

// FolderInfo is folder metadata.
type FolderInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	IsLocked    bool   `json:"is_locked"`
	PromptCount int    `json:"prompt_count"`
}

// TagListOutput is the tag_list result.
type TagListOutput struct {
	Tags []string `json:"tags"`
}

func (s *Server) handlePromptList(_ context.Context, _ *mcp.CallToolRequest, input PromptListInput) (*mcp.CallToolResult, PromptListOutput, error) {
	output := PromptListOutput{Prompts: []PromptInfo{}}
	for _, p := range s.ops.Prompts() {
		if input.FolderID != nil && (p.FolderID == nil || *p.FolderID != *input.FolderID) {
			continue
		}
		if input.Tag != "" && !p.HasTag(input.Tag) {
			continue
		}
		if input.FavoritesOnly && !p.IsFavorite {
			continue
		}
		output.Prompts = append(output.Prompts, s.promptInfo(p))
	}
	return nil, output, nil
}

func (s *Server) handlePromptGet(_ context.Context, _ *mcp.CallToolRequest, input PromptGetInput) (*mcp.CallToolResult, PromptGetOutput, error) {
	p, err := s.ops.Prompt(input.ID)
	if err != nil {
		return nil, PromptGetOutput{}, fmt.Errorf("prompt %d not found", input.ID)
	}

	output := PromptGetOutput{PromptInfo: s.promptInfo(p)}
	state, err := s.ops.State(p.ID)
	if err != nil {
		return nil, PromptGetOutput{}, err
	}
	if state != vault.StatePlaintext {
		// Content stays sealed; the agent gets metadata and the lock state.
		output.Locked = true
		return nil, output, nil
	}
	output.Body = p.Body.Plaintext()
	output.Notes = p.Notes.Plaintext()
	return nil, output, nil
}

func (s *Server) handleFolderList(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, FolderListOutput, error) {
	counts := make(map[int64]int)
	for _, p := range s.ops.Prompts() {
		if p.FolderID != nil {
			counts[*p.FolderID]++
		}
	}

	output := FolderListOutput{Folders: []FolderInfo{}}
	for _, f := range s.ops.Folders() {
		output.Folders = append(output.Folders, FolderInfo{
			ID:          f.ID,
			Name:        f.Name,
			IsLocked:    f.IsLocked,
			PromptCount: counts[f.ID],
		})
	}
	return nil, output, nil
}

func (s *Server) handleTagList(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, TagListOutput, error) {
	return nil, TagListOutput{Tags: s.ops.Tags()}, nil
}

func (s *Server) promptInfo(p *vault.Prompt) PromptInfo {
	info := PromptInfo{
		ID:           p.ID,
		Title:        p.Title,
		Tags:         p.Tags,
		IsFavorite:   p.IsFavorite,
		DateModified: p.DateModified,
	}
	if p.FolderID != nil {
		id := *p.FolderID
		info.FolderID = &id
	}
	if state, err := s.ops.State(p.ID); err == nil {
		info.LockState = state.String()
	}
	return info
}
