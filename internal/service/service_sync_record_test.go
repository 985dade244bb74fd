// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/timeline-sync/internal/validators"
	"github.com/MKhiriev/timeline-sync/models"
)

// seqIDs выдаёт предсказуемые идентификаторы prefix-1, prefix-2, ...
type seqIDs struct {
	prefix string
	n      atomic.Int64
}

func (s *seqIDs) Generate() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

// testClock - управляемые часы; Now безопасен для конкурентного вызова.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordingPublisher запоминает все опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.ChangeEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *recordingPublisher) Events() []models.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ChangeEvent(nil), p.events...)
}

func newTestRecordService(t *testing.T) (SyncRecordService, *testClock, *recordingPublisher) {
	t.Helper()
	clock := newTestClock()
	pub := &recordingPublisher{}
	svc := NewSyncRecordService(&seqIDs{prefix: "rec"}, clock.Now, pub, validators.NewEntityValidator(), nil)
	return svc, clock, pub
}

func trackRow(t *testing.T, svc SyncRecordService, recordID string, status models.SyncStatus) models.SyncRecord {
	t.Helper()
	r, err := svc.Track(context.Background(), TrackRequest{
		TableName: "memories",
		RecordID:  recordID,
		Data:      models.NewFieldMap("title", "Beach day"),
		Status:    status,
	})
	require.NoError(t, err)
	return r
}

// ── Track ────────────────────────────────────────────────────────────────────

func TestSyncRecordService_Track_Defaults(t *testing.T) {
	svc, clock, pub := newTestRecordService(t)

	r := trackRow(t, svc, "m1", "")

	assert.Equal(t, "rec-1", r.ID)
	assert.Equal(t, models.StatusPendingUpload, r.SyncStatus)
	assert.Equal(t, models.OperationCreate, r.Operation)
	assert.Equal(t, clock.Now(), r.CreatedAt)
	assert.Equal(t, clock.Now(), r.LastModified)
	assert.Zero(t, r.RetryCount)
	assert.Nil(t, r.ErrorMessage)

	evs := pub.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, models.EntitySyncRecord, evs[0].Entity)
	assert.Equal(t, models.ChangeCreated, evs[0].Change)
	assert.Equal(t, r.ID, evs[0].EntityID)
}

func TestSyncRecordService_Track_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  TrackRequest
	}{
		{
			name: "синхронизированный статус при создании",
			req:  TrackRequest{TableName: "memories", RecordID: "m1", Status: models.StatusSynced},
		},
		{
			name: "пустое имя таблицы",
			req:  TrackRequest{RecordID: "m1"},
		},
		{
			name: "пустой идентификатор строки",
			req:  TrackRequest{TableName: "memories"},
		},
		{
			name: "неизвестная операция",
			req:  TrackRequest{TableName: "memories", RecordID: "m1", Operation: "upsert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, pub := newTestRecordService(t)
			_, err := svc.Track(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Empty(t, pub.Events())
		})
	}
}

func TestSyncRecordService_Track_DuplicateRow(t *testing.T) {
	svc, _, _ := newTestRecordService(t)
	trackRow(t, svc, "m1", "")

	_, err := svc.Track(context.Background(), TrackRequest{TableName: "memories", RecordID: "m1"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSyncRecordService_Track_CopiesData(t *testing.T) {
	svc, _, _ := newTestRecordService(t)
	data := models.NewFieldMap("tags", []any{"sea"})

	r, err := svc.Track(context.Background(), TrackRequest{TableName: "memories", RecordID: "m1", Data: data})
	require.NoError(t, err)

	data.Set("tags", []any{"mountains"})
	got, err := svc.Get(context.Background(), r.ID)
	require.NoError(t, err)
	v, _ := got.Data.Get("tags")
	assert.Equal(t, []any{"sea"}, v)
}

// ── State machine ────────────────────────────────────────────────────────────

// step - один переход конечного автомата.
type step func(svc SyncRecordService, id string) (models.SyncRecord, error)

var (
	begin step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.BeginSync(context.Background(), id)
	}
	complete step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.CompleteSync(context.Background(), id)
	}
	fail step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.FailSync(context.Background(), id, "timeout")
	}
	flag step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.FlagConflict(context.Background(), id)
	}
	retry step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.Retry(context.Background(), id)
	}
	remote step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.MarkRemoteChanged(context.Background(), id)
	}
	dirty step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.MarkDirty(context.Background(), id)
	}
	resolved step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.ResolveConflict(context.Background(), id, true)
	}
	reupload step = func(s SyncRecordService, id string) (models.SyncRecord, error) {
		return s.ResolveConflict(context.Background(), id, false)
	}
)

func TestSyncRecordService_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		initial models.SyncStatus
		steps   []step
		want    models.SyncStatus
		wantErr error
	}{
		{name: "успешная выгрузка", steps: []step{begin, complete}, want: models.StatusSynced},
		{name: "ошибка транспорта", steps: []step{begin, fail}, want: models.StatusFailed},
		{name: "повтор после ошибки", steps: []step{begin, fail, retry}, want: models.StatusPendingUpload},
		{name: "конфликт", steps: []step{begin, flag}, want: models.StatusConflict},
		{name: "конфликт разрешён как синхронизированный", steps: []step{begin, flag, resolved}, want: models.StatusSynced},
		{name: "конфликт разрешён с повторной выгрузкой", steps: []step{begin, flag, reupload}, want: models.StatusPendingUpload},
		{name: "удалённое изменение", steps: []step{begin, complete, remote}, want: models.StatusPendingDownload},
		{name: "загрузка", initial: models.StatusPendingDownload, steps: []step{begin, complete}, want: models.StatusSynced},
		{name: "офлайн запись помечена грязной", initial: models.StatusOfflineOnly, steps: []step{dirty}, want: models.StatusPendingUpload},
		{name: "грязной можно пометить из любого статуса", steps: []step{begin, flag, dirty}, want: models.StatusPendingUpload},

		{name: "завершение без начала", steps: []step{complete}, want: models.StatusPendingUpload, wantErr: models.ErrInvalidState},
		{name: "ошибка без начала", steps: []step{fail}, want: models.StatusPendingUpload, wantErr: models.ErrInvalidState},
		{name: "двойное начало", steps: []step{begin, begin}, want: models.StatusSyncing, wantErr: models.ErrInvalidState},
		{name: "офлайн запись не синхронизируется", initial: models.StatusOfflineOnly, steps: []step{begin}, want: models.StatusOfflineOnly, wantErr: models.ErrInvalidState},
		{name: "повтор не из ошибки", steps: []step{retry}, want: models.StatusPendingUpload, wantErr: models.ErrInvalidState},
		{name: "удалённое изменение не из synced", steps: []step{remote}, want: models.StatusPendingUpload, wantErr: models.ErrInvalidState},
		{name: "разрешение без конфликта", steps: []step{begin, complete, resolved}, want: models.StatusSynced, wantErr: models.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestRecordService(t)
			r := trackRow(t, svc, "m1", tt.initial)

			var err error
			for _, s := range tt.steps {
				if r, err = s(svc, r.ID); err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, r.SyncStatus, "возвращённая запись")
			stored, getErr := svc.Get(context.Background(), r.ID)
			require.NoError(t, getErr)
			assert.Equal(t, tt.want, stored.SyncStatus, "сохранённая запись")
		})
	}
}

func TestSyncRecordService_RejectedTransition_NoEvent(t *testing.T) {
	svc, _, pub := newTestRecordService(t)
	r := trackRow(t, svc, "m1", "")
	before := len(pub.Events())

	_, err := svc.CompleteSync(context.Background(), r.ID)
	require.ErrorIs(t, err, models.ErrInvalidState)
	assert.Len(t, pub.Events(), before)
}

func TestSyncRecordService_FailSync_CountsRetries(t *testing.T) {
	svc, _, _ := newTestRecordService(t)
	ctx := context.Background()
	r := trackRow(t, svc, "m1", "")

	for i := 1; i <= 3; i++ {
		_, err := svc.BeginSync(ctx, r.ID)
		require.NoError(t, err)
		r, err = svc.FailSync(ctx, r.ID, fmt.Sprintf("attempt %d", i))
		require.NoError(t, err)
		assert.Equal(t, i, r.RetryCount)
		require.True(t, r.HasError())
		assert.Equal(t, fmt.Sprintf("attempt %d", i), *r.ErrorMessage)

		r, err = svc.Retry(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, i, r.RetryCount, "Retry сохраняет счётчик")
	}

	_, err := svc.BeginSync(ctx, r.ID)
	require.NoError(t, err)
	r, err = svc.CompleteSync(ctx, r.ID)
	require.NoError(t, err)
	assert.Zero(t, r.RetryCount)
	assert.Nil(t, r.ErrorMessage)
}

func TestSyncRecordService_CompleteSync_WithData(t *testing.T) {
	svc, _, _ := newTestRecordService(t)
	ctx := context.Background()
	r := trackRow(t, svc, "m1", models.StatusPendingDownload)

	_, err := svc.BeginSync(ctx, r.ID)
	require.NoError(t, err)
	r, err = svc.CompleteSync(ctx, r.ID, WithSyncedData(models.NewFieldMap("title", "Remote title")))
	require.NoError(t, err)

	v, _ := r.Data.Get("title")
	assert.Equal(t, "Remote title", v)
}

// ── Edit / MarkDeleted ───────────────────────────────────────────────────────

func TestSyncRecordService_Edit(t *testing.T) {
	tests := []struct {
		name       string
		initial    models.SyncStatus
		sync       bool
		wantStatus models.SyncStatus
		wantOp     models.Operation
	}{
		{name: "ещё не выгружено - остаётся create", wantStatus: models.StatusPendingUpload, wantOp: models.OperationCreate},
		{name: "после синхронизации - update", sync: true, wantStatus: models.StatusPendingUpload, wantOp: models.OperationUpdate},
		{name: "офлайн запись остаётся офлайн", initial: models.StatusOfflineOnly, wantStatus: models.StatusOfflineOnly, wantOp: models.OperationCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, clock, _ := newTestRecordService(t)
			ctx := context.Background()
			r := trackRow(t, svc, "m1", tt.initial)
			if tt.sync {
				_, err := svc.BeginSync(ctx, r.ID)
				require.NoError(t, err)
				_, err = svc.CompleteSync(ctx, r.ID)
				require.NoError(t, err)
			}

			clock.Advance(time.Minute)
			got, err := svc.Edit(ctx, r.ID, models.NewFieldMap("title", "Edited"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got.SyncStatus)
			assert.Equal(t, tt.wantOp, got.Operation)
			assert.Equal(t, clock.Now(), got.LastModified)
			assert.True(t, got.LastModified.After(got.CreatedAt))
		})
	}
}

func TestSyncRecordService_MarkDeleted(t *testing.T) {
	t.Run("синхронизированная запись становится операцией удаления", func(t *testing.T) {
		svc, _, _ := newTestRecordService(t)
		ctx := context.Background()
		r := trackRow(t, svc, "m1", "")
		_, err := svc.BeginSync(ctx, r.ID)
		require.NoError(t, err)
		_, err = svc.CompleteSync(ctx, r.ID)
		require.NoError(t, err)

		got, err := svc.MarkDeleted(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OperationDelete, got.Operation)
		assert.Equal(t, models.StatusPendingUpload, got.SyncStatus)

		stored, err := svc.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OperationDelete, stored.Operation)
	})

	t.Run("офлайн запись удаляется целиком", func(t *testing.T) {
		svc, _, pub := newTestRecordService(t)
		ctx := context.Background()
		r := trackRow(t, svc, "m1", models.StatusOfflineOnly)

		_, err := svc.MarkDeleted(ctx, r.ID)
		require.NoError(t, err)

		_, err = svc.Get(ctx, r.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		_, err = svc.FindByRow(ctx, "memories", "m1")
		assert.ErrorIs(t, err, models.ErrNotFound)

		evs := pub.Events()
		assert.Equal(t, models.ChangeRemoved, evs[len(evs)-1].Change)

		// строку снова можно отслеживать
		trackRow(t, svc, "m1", "")
	})
}

// ── Queries ──────────────────────────────────────────────────────────────────

func TestSyncRecordService_Queries(t *testing.T) {
	svc, clock, _ := newTestRecordService(t)
	ctx := context.Background()

	a := trackRow(t, svc, "a", "")
	clock.Advance(time.Second)
	b := trackRow(t, svc, "b", models.StatusOfflineOnly)
	clock.Advance(time.Second)
	c := trackRow(t, svc, "c", models.StatusPendingDownload)
	clock.Advance(time.Second)
	d := trackRow(t, svc, "d", "")
	_, err := svc.BeginSync(ctx, d.ID)
	require.NoError(t, err)
	_, err = svc.FailSync(ctx, d.ID, "offline")
	require.NoError(t, err)

	all := svc.List(ctx)
	require.Len(t, all, 4)
	assert.Equal(t, []string{a.ID, b.ID, c.ID, d.ID}, recordIDs(all))

	assert.Equal(t, []string{b.ID}, recordIDs(svc.List(ctx, models.StatusOfflineOnly)))
	assert.Equal(t, []string{a.ID, c.ID, d.ID}, recordIDs(svc.Pending(ctx)))

	found, err := svc.FindByRow(ctx, "memories", "c")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.BeginSync(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSyncRecordService_Get_ReturnsCopy(t *testing.T) {
	svc, _, _ := newTestRecordService(t)
	ctx := context.Background()
	r := trackRow(t, svc, "m1", "")

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	got.Data.Set("title", "mutated outside")
	got.SyncStatus = models.StatusSynced

	again, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	v, _ := again.Data.Get("title")
	assert.Equal(t, "Beach day", v)
	assert.Equal(t, models.StatusPendingUpload, again.SyncStatus)
}

func TestSyncRecordService_Restore(t *testing.T) {
	svc, _, pub := newTestRecordService(t)
	ctx := context.Background()
	msg := "boom"

	err := svc.Restore(ctx, models.SyncRecord{
		ID:           "stored-1",
		TableName:    "memories",
		RecordID:     "m9",
		SyncStatus:   models.StatusFailed,
		Operation:    models.OperationUpdate,
		RetryCount:   2,
		ErrorMessage: &msg,
	})
	require.NoError(t, err)
	assert.Empty(t, pub.Events())

	r, err := svc.Retry(ctx, "stored-1")
	require.NoError(t, err)
	assert.Equal(t, 2, r.RetryCount)

	err = svc.Restore(ctx, models.SyncRecord{ID: "bad", TableName: "memories", RecordID: "x", SyncStatus: "lost", Operation: models.OperationCreate})
	assert.ErrorIs(t, err, models.ErrValidation)
}

// ── Concurrency ──────────────────────────────────────────────────────────────

func TestSyncRecordService_ConcurrentRecords(t *testing.T) {
	svc, _, pub := newTestRecordService(t)
	ctx := context.Background()

	const n = 64
	ids := make([]string, n)
	for i := range n {
		ids[i] = trackRow(t, svc, fmt.Sprintf("row-%d", i), "").ID
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.BeginSync(ctx, id); err != nil {
				t.Error(err)
				return
			}
			var err error
			if i%2 == 0 {
				_, err = svc.CompleteSync(ctx, id)
			} else {
				_, err = svc.FailSync(ctx, id, "offline")
			}
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, svc.List(ctx, models.StatusSynced), n/2)
	assert.Len(t, svc.List(ctx, models.StatusFailed), n/2)
	assert.Len(t, pub.Events(), 3*n)
}

func TestSyncRecordService_ConcurrentSameRecord(t *testing.T) {
	svc, _, pub := newTestRecordService(t)
	ctx := context.Background()
	r := trackRow(t, svc, "m1", "")

	// из множества одновременных BeginSync ровно один должен пройти
	const n = 32
	var ok atomic.Int64
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.BeginSync(ctx, r.ID)
			switch {
			case err == nil:
				ok.Add(1)
			case !errors.Is(err, models.ErrInvalidState):
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), ok.Load())
	assert.Len(t, pub.Events(), 2)
}

func recordIDs(records []models.SyncRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
