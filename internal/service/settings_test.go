package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"zapis/internal/domain"
)

func TestSettingsGet_Defaults(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, zap.NewNop())

	got, err := svc.Get(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if got.OrgID != 1 || got.CalendarID != 2 {
		t.Errorf("неверные идентификаторы: org=%d calendar=%d", got.OrgID, got.CalendarID)
	}
	if got.WorkingHours == nil || got.WorkingHours.StartTime != domain.DefaultStartTime || got.WorkingHours.EndTime != domain.DefaultEndTime {
		t.Errorf("ожидались рабочие часы по умолчанию, получено %+v", got.WorkingHours)
	}
	if len(got.WorkingDays) != len(domain.DefaultWorkingDays) {
		t.Errorf("ожидались рабочие дни по умолчанию, получено %v", got.WorkingDays)
	}
}

func TestSettingsGet_EmptyWorkingDaysPreserved(t *testing.T) {
	repo := &settingsRepoStub{
		doc: &domain.Settings{WorkingDays: []int{}},
	}
	svc := NewSettingsService(repo, zap.NewNop())

	got, err := svc.Get(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.WorkingDays == nil || len(got.WorkingDays) != 0 {
		t.Errorf("пустой список рабочих дней должен сохраняться, получено %v", got.WorkingDays)
	}
}

func TestSettingsUpdate_MergesOnlyProvidedFields(t *testing.T) {
	repo := &settingsRepoStub{
		doc: &domain.Settings{
			WorkingHours: &domain.WorkingHours{StartTime: "08:00", EndTime: "16:00"},
			WorkingDays:  []int{1, 2, 3},
			BlockedSlots: []domain.BlockedSlot{{StartTime: "12:00", EndTime: "13:00", Label: "Обед"}},
			OneOffSlots:  []domain.OneOffSlot{{Date: "2025-01-10", Time: "09:00"}},
		},
	}
	svc := NewSettingsService(repo, zap.NewNop())

	days := []int{1, 2, 3, 4, 5, 6}
	got, err := svc.Update(context.Background(), 1, 2, domain.UpdateSettingsDTO{
		WorkingDays: &days,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(got.WorkingDays) != 6 {
		t.Errorf("рабочие дни не обновились: %v", got.WorkingDays)
	}
	if got.WorkingHours.StartTime != "08:00" || got.WorkingHours.EndTime != "16:00" {
		t.Errorf("рабочие часы не должны были измениться: %+v", got.WorkingHours)
	}
	if len(got.BlockedSlots) != 1 || got.BlockedSlots[0].Label != "Обед" {
		t.Errorf("блокировки не должны были измениться: %+v", got.BlockedSlots)
	}
	if len(got.OneOffSlots) != 1 {
		t.Errorf("точечные отметки не должны были измениться: %+v", got.OneOffSlots)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("ожидалась одна запись документа, было %d", len(repo.saved))
	}
	if repo.saved[0].UpdatedAt.IsZero() {
		t.Error("отметка времени обновления не проставлена")
	}
}

func TestSettingsUpdate_CalendarSync(t *testing.T) {
	repo := &settingsRepoStub{}
	svc := NewSettingsService(repo, zap.NewNop())

	got, err := svc.Update(context.Background(), 1, 2, domain.UpdateSettingsDTO{
		CalendarSync: &domain.CalendarSyncSettings{AutoCreateEvents: true, ShowBusyTimes: true},
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !got.CalendarSync.AutoCreateEvents || !got.CalendarSync.ShowBusyTimes || got.CalendarSync.SyncCancellations {
		t.Errorf("неверные настройки синхронизации: %+v", got.CalendarSync)
	}
}

func TestSettingsUpdate_UpsertFailure(t *testing.T) {
	repo := &settingsRepoStub{upsertErr: errStub}
	svc := NewSettingsService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), 1, 2, domain.UpdateSettingsDTO{})
	if err == nil {
		t.Fatal("ожидалась ошибка сохранения")
	}
}
