package services

import (
	"roomvote_backend/internal/models"
	"roomvote_backend/internal/services/dto"
)

/*
Подсчет итогов. Чистые функции над уже загруженными голосами:
порядок результатов повторяет порядок вариантов опроса.
*/

// buildCountResults считает голоса по вариантам (single и multiple).
func buildCountResults(options []models.PollOption, votes []models.Vote) []dto.OptionCountResult {
	counts := make(map[string]int, len(options))
	for _, v := range votes {
		counts[v.OptionID]++
	}

	results := make([]dto.OptionCountResult, 0, len(options))
	for _, opt := range options {
		results = append(results, dto.OptionCountResult{
			OptionID: opt.ID,
			Text:     opt.Text,
			Count:    counts[opt.ID],
		})
	}
	return results
}

// buildRatingResults считает среднюю оценку и число оценок по вариантам.
// Вариант без оценок получает среднее 0.
func buildRatingResults(options []models.PollOption, votes []models.Vote) []dto.OptionRatingResult {
	sums := make(map[string]int, len(options))
	counts := make(map[string]int, len(options))
	for _, v := range votes {
		if v.Rating == nil {
			continue
		}
		sums[v.OptionID] += *v.Rating
		counts[v.OptionID]++
	}

	results := make([]dto.OptionRatingResult, 0, len(options))
	for _, opt := range options {
		result := dto.OptionRatingResult{
			OptionID: opt.ID,
			Text:     opt.Text,
			Count:    counts[opt.ID],
		}
		if result.Count > 0 {
			result.AvgRating = float64(sums[opt.ID]) / float64(result.Count)
		}
		results = append(results, result)
	}
	return results
}

// attachOptionAggregates раскладывает итоги по вариантам ответа:
// votes для single/multiple, average_rating и vote_count для
// rated_options. Порядок resp.Options повторяет порядок poll.Options.
func attachOptionAggregates(poll *models.Poll, votes []models.Vote, resp *dto.PollResponse) {
	switch poll.Type {
	case models.PollTypeRatedOptions:
		for i, result := range buildRatingResults(poll.Options, votes) {
			avg := result.AvgRating
			count := result.Count
			resp.Options[i].AverageRating = &avg
			resp.Options[i].VoteCount = &count
		}
	default:
		for i, result := range buildCountResults(poll.Options, votes) {
			count := result.Count
			resp.Options[i].Votes = &count
		}
	}
}

// countDistinctVoters - число проголосовавших пользователей
func countDistinctVoters(votes []models.Vote) int {
	seen := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		seen[v.UserID] = struct{}{}
	}
	return len(seen)
}
