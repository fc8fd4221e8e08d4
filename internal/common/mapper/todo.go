package mapper

import (
	"github.com/AlibekovAA/tada/internal/common/dto"
	tododomain "github.com/AlibekovAA/tada/internal/todo/domain"
)

func TodoToDTO(todo tododomain.Todo) dto.Todo {
	return dto.Todo{
		ID:        string(todo.ID),
		Title:     todo.Title,
		Completed: todo.Completed,
		OwnerID:   string(todo.OwnerID),
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

func TodoPageToDTO(page tododomain.Page) dto.TodoPage {
	content := make([]dto.Todo, len(page.Content))
	for i, t := range page.Content {
		content[i] = TodoToDTO(t)
	}
	return dto.TodoPage{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

func TodoPatchFromDTO(req dto.UpdateTodoRequest) tododomain.Patch {
	return tododomain.Patch{Title: req.Title, Completed: req.Completed}
}
