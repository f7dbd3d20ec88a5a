package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *memRepo) {
	t.Helper()
	uc := NewListingUsecase(repo, ListingDeps{}, logger.NewNop())
	ctx := context.Background()
	records := []struct {
		c domain.Category
		r domain.Record
	}{
		{domain.CategoryTaxi, kasunRecord()},
		{domain.CategorySkill, domain.Record{"name": {"Guitar with Kasun"}, "contact": {"1"}, "skillType": {"music"}}},
		{domain.CategorySkill, domain.Record{"name": {"Python basics"}, "contact": {"2"}, "skillType": {"programming"}}},
		{domain.CategoryBoarding, domain.Record{"name": {"Annex"}, "location": {"Matara"}, "contact": {"3"}, "price": {"9000"}, "description": {"Near the music faculty"}}},
		{domain.CategoryRent, domain.Record{"title": {"Keyboard"}, "contact": {"4"}, "price": {"500"}, "description": {"Casio"}}},
	}
	for _, rec := range records {
		_, err := uc.CreateListing(ctx, anonymous, rec.c, rec.r, nil)
		require.NoError(t, err)
	}
}

func newSearch(t *testing.T, repo *memRepo, cats []domain.Category, partial bool, rec Recorder) *SearchUsecase {
	t.Helper()
	uc, err := NewSearchUsecase(repo, cats, partial, rec, logger.NewNop())
	require.NoError(t, err)
	return uc
}

func TestSearch_BlankTermSkipsStore(t *testing.T) {
	repo := newMemRepo()
	m := metrics.NewMetricsManager("test")
	uc := newSearch(t, repo, domain.DefaultSearchCategories, false, m)

	for _, term := range []string{"", "   ", "\t"} {
		got, err := uc.Search(context.Background(), term)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Zero(t, repo.storeCalls())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues(metrics.OutcomeEmpty)))
}

func TestSearch_UnionAcrossCategories(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo)
	uc := newSearch(t, repo, domain.DefaultSearchCategories, false, nil)

	got, err := uc.Search(context.Background(), "MUSIC")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.CategorySkill, got[0].Category, "results follow the configured category order")
	assert.Equal(t, "Guitar with Kasun", got[0].Listing.Title)
	assert.Equal(t, domain.CategoryBoarding, got[1].Category)
	assert.Equal(t, "Annex", got[1].Listing.Title)
}

func TestSearch_KasunExample(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo)

	defaults := newSearch(t, repo, domain.DefaultSearchCategories, false, nil)
	got, err := defaults.Search(context.Background(), "Kasun")
	require.NoError(t, err)
	require.Len(t, got, 1, "taxis are not searched by default")
	assert.Equal(t, domain.CategorySkill, got[0].Category)

	withTaxi := newSearch(t, repo, []domain.Category{domain.CategoryTaxi}, false, nil)
	got, err = withTaxi.Search(context.Background(), "kasun")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.CategoryTaxi, got[0].Category)
	assert.Equal(t, "Wakwella", got[0].Listing.Location)
}

func TestSearch_AllOrNothing(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo)
	repo.searchErr[domain.CategoryRent] = errors.New("connection reset")
	m := metrics.NewMetricsManager("test")
	uc := newSearch(t, repo, domain.DefaultSearchCategories, false, m)

	got, err := uc.Search(context.Background(), "music")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrSearch)
	assert.Contains(t, err.Error(), "rent")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues(metrics.OutcomeError)))
}

func TestSearch_PartialResults(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo)
	repo.searchErr[domain.CategoryRent] = errors.New("connection reset")
	m := metrics.NewMetricsManager("test")
	uc := newSearch(t, repo, domain.DefaultSearchCategories, true, m)

	got, err := uc.Search(context.Background(), "music")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues(metrics.OutcomePartial)))
}

func TestSearch_PartialResultsEveryCategoryFails(t *testing.T) {
	repo := newMemRepo()
	for _, c := range domain.DefaultSearchCategories {
		repo.searchErr[c] = errors.New("down")
	}
	uc := newSearch(t, repo, domain.DefaultSearchCategories, true, nil)

	_, err := uc.Search(context.Background(), "music")
	assert.ErrorIs(t, err, domain.ErrSearch)
}

func TestNewSearchUsecase_RejectsUnsearchableCategory(t *testing.T) {
	_, err := NewSearchUsecase(newMemRepo(), []domain.Category{domain.CategoryShop}, false, nil, logger.NewNop())
	assert.Error(t, err)

	_, err = NewSearchUsecase(newMemRepo(), []domain.Category{"bikes"}, false, nil, logger.NewNop())
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}
