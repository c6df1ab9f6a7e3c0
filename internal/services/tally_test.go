package services

import (
	"testing"

	"roomvote_backend/internal/models"
	"roomvote_backend/internal/services/dto"
	"roomvote_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testPoll(pollType models.PollType) *models.Poll {
	poll := &models.Poll{
		Type: pollType,
		Options: []models.PollOption{
			{BaseModel: models.BaseModel{ID: "opt-a"}, Text: "А"},
			{BaseModel: models.BaseModel{ID: "opt-b"}, Text: "Б"},
			{BaseModel: models.BaseModel{ID: "opt-c"}, Text: "В"},
		},
	}
	poll.ID = "poll-1"
	return poll
}

func TestBuildCountResults(t *testing.T) {
	poll := testPoll(models.PollTypeMultiple)
	votes := []models.Vote{
		{UserID: "u1", OptionID: "opt-a"},
		{UserID: "u1", OptionID: "opt-b"},
		{UserID: "u2", OptionID: "opt-a"},
	}

	results := buildCountResults(poll.Options, votes)
	require.Len(t, results, 3)
	assert.Equal(t, 2, results[0].Count)
	assert.Equal(t, 1, results[1].Count)
	assert.Equal(t, 0, results[2].Count)
	assert.Equal(t, "А", results[0].Text)
}

func TestBuildRatingResults(t *testing.T) {
	poll := testPoll(models.PollTypeRatedOptions)
	votes := []models.Vote{
		{UserID: "u1", OptionID: "opt-a", Rating: intPtr(5)},
		{UserID: "u2", OptionID: "opt-a", Rating: intPtr(4)},
		{UserID: "u1", OptionID: "opt-b", Rating: intPtr(2)},
	}

	results := buildRatingResults(poll.Options, votes)
	require.Len(t, results, 3)
	assert.InDelta(t, 4.5, results[0].AvgRating, 0.0001)
	assert.Equal(t, 2, results[0].Count)
	assert.InDelta(t, 2.0, results[1].AvgRating, 0.0001)

	// Вариант без оценок: среднее 0, а не NaN
	assert.Equal(t, 0.0, results[2].AvgRating)
	assert.Equal(t, 0, results[2].Count)
}

func TestCountDistinctVoters(t *testing.T) {
	votes := []models.Vote{
		{UserID: "u1", OptionID: "opt-a"},
		{UserID: "u1", OptionID: "opt-b"},
		{UserID: "u2", OptionID: "opt-a"},
	}
	assert.Equal(t, 2, countDistinctVoters(votes))
	assert.Equal(t, 0, countDistinctVoters(nil))
}

func TestBuildBallot_Single(t *testing.T) {
	poll := testPoll(models.PollTypeSingle)

	votes, err := buildBallot(poll, "u1", &dto.CastVoteRequest{OptionID: "opt-a"})
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "opt-a", votes[0].OptionID)
	assert.Nil(t, votes[0].Rating)

	// Чужой вариант
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{OptionID: "opt-x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)

	// Бюллетень не того типа
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{OptionIDs: []string{"opt-a"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)

	// Пустой бюллетень
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)
}

func TestBuildBallot_Multiple(t *testing.T) {
	poll := testPoll(models.PollTypeMultiple)

	votes, err := buildBallot(poll, "u1", &dto.CastVoteRequest{OptionIDs: []string{"opt-a", "opt-c"}})
	require.NoError(t, err)
	assert.Len(t, votes, 2)

	// Дубликат варианта в одном бюллетене
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{OptionIDs: []string{"opt-a", "opt-a"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)

	// Смешанный бюллетень
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{OptionID: "opt-a", OptionIDs: []string{"opt-b"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)
}

func TestBuildBallot_Rated(t *testing.T) {
	poll := testPoll(models.PollTypeRatedOptions)

	votes, err := buildBallot(poll, "u1", &dto.CastVoteRequest{Ratings: map[string]int{"opt-a": 5, "opt-b": 1}})
	require.NoError(t, err)
	require.Len(t, votes, 2)
	for _, v := range votes {
		require.NotNil(t, v.Rating)
		assert.GreaterOrEqual(t, *v.Rating, 1)
		assert.LessOrEqual(t, *v.Rating, 5)
	}

	// Оценка вне диапазона
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{Ratings: map[string]int{"opt-a": 6}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)

	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{Ratings: map[string]int{"opt-a": 0}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)

	// Оценка чужого варианта
	_, err = buildBallot(poll, "u1", &dto.CastVoteRequest{Ratings: map[string]int{"opt-x": 3}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBallot)
}

func TestSanitizeOptionTexts(t *testing.T) {
	options := sanitizeOptionTexts([]string{"Горы", "   ", "  Море  ", ""})
	assert.Equal(t, []string{"Горы", "Море"}, options)
}

func TestValidateOptionCount(t *testing.T) {
	// single и multiple требуют минимум двух вариантов
	assert.Error(t, validateOptionCount(models.PollTypeSingle, 1))
	assert.Error(t, validateOptionCount(models.PollTypeMultiple, 1))
	assert.NoError(t, validateOptionCount(models.PollTypeSingle, 2))

	// rated_options живет и с одним
	assert.NoError(t, validateOptionCount(models.PollTypeRatedOptions, 1))

	// Совсем без вариантов нельзя никому
	assert.Error(t, validateOptionCount(models.PollTypeRatedOptions, 0))
}

func TestAttachOptionAggregates(t *testing.T) {
	poll := testPoll(models.PollTypeRatedOptions)
	votes := []models.Vote{
		{UserID: "u1", OptionID: "opt-a", Rating: intPtr(5)},
		{UserID: "u2", OptionID: "opt-a", Rating: intPtr(4)},
	}

	resp := dto.NewPollResponse(poll)
	attachOptionAggregates(poll, votes, &resp)
	require.Len(t, resp.Options, 3)
	require.NotNil(t, resp.Options[0].AverageRating)
	assert.InDelta(t, 4.5, *resp.Options[0].AverageRating, 0.001)
	require.NotNil(t, resp.Options[0].VoteCount)
	assert.Equal(t, 2, *resp.Options[0].VoteCount)
	require.NotNil(t, resp.Options[1].VoteCount)
	assert.Equal(t, 0, *resp.Options[1].VoteCount)
	assert.Nil(t, resp.Options[0].Votes)

	countPoll := testPoll(models.PollTypeSingle)
	countResp := dto.NewPollResponse(countPoll)
	attachOptionAggregates(countPoll, []models.Vote{{UserID: "u1", OptionID: "opt-b"}}, &countResp)
	require.NotNil(t, countResp.Options[1].Votes)
	assert.Equal(t, 1, *countResp.Options[1].Votes)
	assert.Nil(t, countResp.Options[1].AverageRating)
}
