package service

import (
	"context"
	"testing"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blastRequest() *dto.CreateKnowledgeRequest {
	return &dto.CreateKnowledgeRequest{
		PestId:        1,
		Category:      "真菌病害",
		Name:          "稻瘟病",
		Type:          "真菌",
		Aliases:       []string{"稻热病", "火烧瘟"},
		KeyFeatures:   "叶片出现梭形病斑",
		AffectedParts: []string{"叶片", "穗颈"},
		ImageUrls:     []string{"/static/blast1.jpg", "/static/blast2.jpg"},
		Controls: dto.ControlsPayload{
			Agricultural: []string{"选用抗病品种"},
			Chemical:     []string{"三环唑", "稻瘟灵"},
		},
	}
}

func TestKnowledgeService_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewKnowledgeService(env.factory, env.publisher, env.log, env.clock.Now)

	created, err := svc.Create(ctx, blastRequest())
	require.NoError(t, err)
	assert.Equal(t, "1", created.Id)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "稻瘟病", got.Name)
	assert.Equal(t, []string{"稻热病", "火烧瘟"}, got.Aliases)
	assert.Equal(t, []string{"/static/blast1.jpg", "/static/blast2.jpg"}, got.ImageUrls)
	assert.Equal(t, []string{"三环唑", "稻瘟灵"}, got.Controls.Chemical)
	assert.Equal(t, []string{}, got.Controls.Physical)

	_, err = svc.Create(ctx, blastRequest())
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	assert.Equal(t, []string{events.KnowledgeChanged}, env.publisher.Types())
}

func TestKnowledgeService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewKnowledgeService(env.factory, env.publisher, env.log, env.clock.Now)
	_, err := svc.Create(ctx, blastRequest())
	require.NoError(t, err)

	pathogen := "稻梨孢菌"
	physical := []string{"清除病残体"}
	updated, err := svc.Update(ctx, 1, &dto.UpdateKnowledgeRequest{
		Pathogen: &pathogen,
		Controls: &dto.ControlsPatch{Physical: &physical},
	})
	require.NoError(t, err)
	assert.Equal(t, "稻梨孢菌", updated.Pathogen)
	assert.Equal(t, []string{"清除病残体"}, updated.Controls.Physical)

	// Untouched fields keep their values.
	assert.Equal(t, "稻瘟病", updated.Name)
	assert.Equal(t, []string{"三环唑", "稻瘟灵"}, updated.Controls.Chemical)

	empty := ""
	_, err = svc.Update(ctx, 1, &dto.UpdateKnowledgeRequest{Name: &empty})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "稻瘟病", got.Name)

	_, err = svc.Update(ctx, 99, &dto.UpdateKnowledgeRequest{Pathogen: &pathogen})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestKnowledgeService_ListCategories(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewKnowledgeService(env.factory, env.publisher, env.log, env.clock.Now)

	for i, category := range []string{"真菌病害", "虫害", "真菌病害"} {
		req := blastRequest()
		req.PestId = i + 1
		req.Category = category
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	tests := []struct {
		category string
		want     int
	}{
		{"", 3},
		{"全部", 3},
		{"all", 3},
		{"虫害", 1},
		{"真菌病害", 2},
		{"病毒病害", 0},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			items, total, err := svc.List(ctx, &dto.KnowledgeListRequest{Category: tt.category})
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
			assert.EqualValues(t, tt.want, total)
		})
	}

	page, total, err := svc.List(ctx, &dto.KnowledgeListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.EqualValues(t, 3, total)
}

func TestKnowledgeService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewKnowledgeService(env.factory, env.publisher, env.log, env.clock.Now)
	_, err := svc.Create(ctx, blastRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1))
	_, err = svc.Get(ctx, 1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(svc.Delete(ctx, 1), apperror.KindNotFound))
}

func TestKnowledgeService_CreateRequiresName(t *testing.T) {
	env := newTestEnv(t)
	svc := NewKnowledgeService(env.factory, env.publisher, env.log, env.clock.Now)
	req := blastRequest()
	req.Name = "  "
	_, err := svc.Create(context.Background(), req)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Empty(t, env.publisher.Types())
}
