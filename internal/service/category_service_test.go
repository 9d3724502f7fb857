package service

import (
	"context"
	"errors"
	"testing"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
)

func TestCategoryService_CreateAndList(t *testing.T) {
	repo, ms := newMockStore()
	svc := NewCategoryService(repo, nopLogger)
	admin := ms.addUser("Admin", "admin@example.com", "99999999999", model.RoleAdmin)

	if _, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: " Sindicato "}, adminCaller(admin)); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: "Condomínio"}, adminCaller(admin)); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Condomínio" || list[1].Name != "Sindicato" {
		t.Errorf("列表结果不符: %+v", list)
	}
}

func TestCategoryService_Create_Duplicate(t *testing.T) {
	repo, ms := newMockStore()
	svc := NewCategoryService(repo, nopLogger)
	admin := ms.addUser("Admin", "admin@example.com", "99999999999", model.RoleAdmin)

	svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: "Sindicato"}, adminCaller(admin))
	_, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: "Sindicato"}, adminCaller(admin))
	if !errors.Is(err, ErrCategoryExists) {
		t.Errorf("期望 ErrCategoryExists，实际: %v", err)
	}
}

func TestCategoryService_Create_NonAdmin(t *testing.T) {
	repo, ms := newMockStore()
	svc := NewCategoryService(repo, nopLogger)
	u := ms.addUser("Carlos", "carlos@example.com", "11111111111", model.RoleStandard)

	_, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: "X"}, standardCaller(u))
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}
