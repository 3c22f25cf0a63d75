package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/extractor"
	"github.com/spigell/lexnorm/internal/store"
	"github.com/spigell/lexnorm/internal/store/storetest"
)

type stubSummarizer struct {
	calls   int
	prompts []string
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string, customPrompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, customPrompt)
	return s.summary, s.err
}

func newService(t *testing.T, sum *stubSummarizer) *Service {
	t.Helper()
	repo := store.NewContentRepo(storetest.New(t))
	return NewService(repo, extractor.New(zap.NewNop()), sum, zap.NewNop())
}

func TestCreateValidates(t *testing.T) {
	svc := newService(t, &stubSummarizer{})

	_, err := svc.Create(context.Background(), " ", "text")
	require.ErrorIs(t, err, ErrInvalidContent)

	_, err = svc.Create(context.Background(), "Title", "\n")
	require.ErrorIs(t, err, ErrInvalidContent)

	c, err := svc.Create(context.Background(), " Title ", "text")
	require.NoError(t, err)
	require.Equal(t, "Title", c.Title)
}

func TestUploadExtractsText(t *testing.T) {
	svc := newService(t, &stubSummarizer{})

	c, err := svc.Upload(context.Background(), "Notes", "notes.md", []byte("\n# Welding\n"))
	require.NoError(t, err)
	require.Equal(t, "# Welding", c.Text)

	_, err = svc.Upload(context.Background(), "Blank", "blank.txt", []byte("   "))
	require.ErrorIs(t, err, extractor.ErrEmptyExtraction)
}

func TestEnsureSummaryGeneratesOnce(t *testing.T) {
	sum := &stubSummarizer{summary: "Generated summary"}
	svc := newService(t, sum)
	ctx := context.Background()

	c, err := svc.Create(ctx, "Title", "body")
	require.NoError(t, err)

	got, err := svc.EnsureSummary(ctx, c)
	require.NoError(t, err)
	require.Equal(t, "Generated summary", got)

	again, err := svc.EnsureSummary(ctx, c)
	require.NoError(t, err)
	require.Equal(t, got, again)
	require.Equal(t, 1, sum.calls)
	require.Equal(t, []string{""}, sum.prompts)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Generated summary", *stored.Summary)
}

func TestGenerateSummaryWithCustomPrompt(t *testing.T) {
	sum := &stubSummarizer{summary: "Custom summary"}
	svc := newService(t, sum)
	ctx := context.Background()

	c, err := svc.Create(ctx, "Title", "body")
	require.NoError(t, err)

	updated, err := svc.GenerateSummary(ctx, c.ID, "List the skills only")
	require.NoError(t, err)
	require.Equal(t, "Custom summary", *updated.Summary)
	require.Equal(t, []string{"List the skills only"}, sum.prompts)

	_, err = svc.GenerateSummary(ctx, 404, "")
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestSummaryFailureLeavesContentUntouched(t *testing.T) {
	sum := &stubSummarizer{err: errors.New("summary generation failed: quota")}
	svc := newService(t, sum)
	ctx := context.Background()

	c, err := svc.Create(ctx, "Title", "body")
	require.NoError(t, err)

	_, err = svc.EnsureSummary(ctx, c)
	require.ErrorContains(t, err, "quota")

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Summary)
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	svc := newService(t, &stubSummarizer{})
	ctx := context.Background()

	title := "New"
	_, err := svc.Update(ctx, 7, store.ContentUpdate{Title: &title})
	require.ErrorIs(t, err, ErrContentNotFound)

	empty := ""
	_, err = svc.Update(ctx, 7, store.ContentUpdate{Title: &empty})
	require.ErrorIs(t, err, ErrInvalidContent)

	require.ErrorIs(t, svc.Delete(ctx, 7), ErrContentNotFound)
}
