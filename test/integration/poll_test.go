package integration_test

import (
	"net/http"
	"sync"
	"testing"

	"roomvote_backend/internal/models"
	"roomvote_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreatePoll_OwnerOnly - опрос создает только владелец комнаты
func TestCreatePoll_OwnerOnly(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "pollowner", "pollowner@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "pollmember", "pollmember@test.com", "password123")

	roomID, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Опросная")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", ownerToken, map[string]interface{}{
		"question": "Куда едем?",
		"type":     "single",
		"options":  []string{"Горы", "Море"},
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, "Куда едем?")

	memberRes, memberBodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", memberToken, map[string]interface{}{
		"question": "Не мой вопрос",
		"type":     "single",
		"options":  []string{"Да", "Нет"},
	})
	assert.Equal(t, http.StatusForbidden, memberRes.StatusCode)
	assert.Contains(t, memberBodyStr, "Нет прав")
}

// TestCreatePoll_BadType - неизвестный тип опроса отклоняется валидацией
func TestCreatePoll_BadType(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "badtype", "badtype@test.com", "password123")
	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Комната")

	res, _ := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", ownerToken, map[string]interface{}{
		"question": "Вопрос",
		"type":     "ranked",
		"options":  []string{"А", "Б"},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// TestCreatePoll_OptionRules - минимум вариантов зависит от типа,
// пустые варианты выбрасываются, пробелы обрезаются
func TestCreatePoll_OptionRules(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "optrules", "optrules@test.com", "password123")
	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Варианты")

	// rated_options живет и с одним вариантом
	ratedRes, ratedBodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", ownerToken, map[string]interface{}{
		"question": "Оцените фильм",
		"type":     "rated_options",
		"options":  []string{"Фильм А"},
	})
	assert.Equal(t, http.StatusCreated, ratedRes.StatusCode, "Ответ: "+ratedBodyStr)

	// single с одним вариантом не имеет смысла
	singleRes, singleBodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", ownerToken, map[string]interface{}{
		"question": "Выбор без выбора",
		"type":     "single",
		"options":  []string{"Единственный"},
	})
	assert.Equal(t, http.StatusBadRequest, singleRes.StatusCode)
	assert.Contains(t, singleBodyStr, "Нужно минимум два варианта")

	// Пустые варианты молча выбрасываются, пробелы по краям обрезаются
	trimRes, trimBodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", ownerToken, map[string]interface{}{
		"question": "Куда едем?",
		"type":     "single",
		"options":  []string{"Горы", "   ", "  Море  "},
	})
	assert.Equal(t, http.StatusCreated, trimRes.StatusCode)

	var created struct {
		Options []struct {
			Text string `json:"text"`
		} `json:"options"`
	}
	helpers.DecodeJSON(t, trimBodyStr, &created)
	require.Len(t, created.Options, 2)
	assert.Equal(t, "Горы", created.Options[0].Text)
	assert.Equal(t, "Море", created.Options[1].Text)

	// После выбрасывания пустых single остается с одним вариантом
	blankRes, blankBodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/"+roomID+"/polls", ownerToken, map[string]interface{}{
		"question": "Почти пустой",
		"type":     "single",
		"options":  []string{"А", "   "},
	})
	assert.Equal(t, http.StatusBadRequest, blankRes.StatusCode)
	assert.Contains(t, blankBodyStr, "Нужно минимум два варианта")
}

// TestVote_Single - одиночный голос и защита от повторного
func TestVote_Single(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "sowner", "sowner@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "smember", "smember@test.com", "password123")

	roomID, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Одиночный")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Что на ужин?", "single", []string{"Пицца", "Суши"})

	res, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
		"option_id": optionIDs[0],
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Повторный голос того же пользователя
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
		"option_id": optionIDs[1],
	})
	assert.Equal(t, http.StatusBadRequest, res2.StatusCode)
	assert.Contains(t, body2, "Вы уже проголосовали")

	votes := helpers.CountRows(t, ts.DB, &models.Vote{}, "poll_id = ?", pollID)
	assert.Equal(t, int64(1), votes)
}

// TestVote_ConcurrentDuplicate - два одновременных бюллетеня одного
// пользователя: проходит ровно один
func TestVote_ConcurrentDuplicate(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "cowner", "cowner@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "cmember", "cmember@test.com", "password123")

	roomID, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Гонка")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Кто быстрее?", "single", []string{"А", "Б"})

	statuses := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
				"option_id": optionIDs[0],
			})
			statuses <- res.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	var accepted, rejected int
	for status := range statuses {
		switch status {
		case http.StatusOK:
			accepted++
		case http.StatusBadRequest:
			rejected++
		}
	}
	assert.Equal(t, 1, accepted, "Принят должен быть ровно один бюллетень")
	assert.Equal(t, 1, rejected, "Второй бюллетень должен быть отклонен")

	votes := helpers.CountRows(t, ts.DB, &models.Vote{}, "poll_id = ?", pollID)
	assert.Equal(t, int64(1), votes)
}

// TestVote_WrongBallotShape - бюллетень не того типа
func TestVote_WrongBallotShape(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "wowner", "wowner@test.com", "password123")
	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Форма")

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Single-опрос", "single", []string{"А", "Б"})

	// option_ids вместо option_id
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", ownerToken, map[string]interface{}{
		"option_ids": []string{optionIDs[0]},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Неверный тип голосования")

	// Вариант из чужого опроса
	otherPollID, otherOptionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Другой опрос", "single", []string{"В", "Г"})
	_ = otherPollID
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", ownerToken, map[string]interface{}{
		"option_id": otherOptionIDs[0],
	})
	assert.Equal(t, http.StatusBadRequest, res2.StatusCode)
	assert.Contains(t, body2, "Неверный тип голосования")
}

// TestVote_NotMember - не участник комнаты голосовать не может
func TestVote_NotMember(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "nowner", "nowner@test.com", "password123")
	strangerToken, _ := helpers.RegisterAndLogin(t, ts, "nstranger", "nstranger@test.com", "password123")

	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Только свои")
	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Вопрос", "single", []string{"А", "Б"})

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", strangerToken, map[string]interface{}{
		"option_id": optionIDs[0],
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "Вы не состоите в этой комнате")
}

// TestVote_MultipleAndResults - несколько вариантов одним бюллетенем
func TestVote_MultipleAndResults(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "mowner", "mowner@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "mmember", "mmember@test.com", "password123")

	roomID, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Мульти")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Какие топпинги?", "multiple", []string{"Сыр", "Грибы", "Ананас"})

	res1, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", ownerToken, map[string]interface{}{
		"option_ids": []string{optionIDs[0], optionIDs[1]},
	})
	require.Equal(t, http.StatusOK, res1.StatusCode)

	res2, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
		"option_ids": []string{optionIDs[0]},
	})
	require.Equal(t, http.StatusOK, res2.StatusCode)

	resultsRes, resultsBodyStr := ts.SendRequest(t, "GET", "/api/v1/polls/"+pollID+"/results", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resultsRes.StatusCode)

	var results struct {
		TotalVoters int `json:"total_voters"`
		Counts      []struct {
			OptionID string `json:"option_id"`
			Count    int    `json:"count"`
		} `json:"counts"`
	}
	helpers.DecodeJSON(t, resultsBodyStr, &results)
	assert.Equal(t, 2, results.TotalVoters)
	require.Len(t, results.Counts, 3)
	assert.Equal(t, 2, results.Counts[0].Count)
	assert.Equal(t, 1, results.Counts[1].Count)
	assert.Equal(t, 0, results.Counts[2].Count)
}

// TestVote_RatedAndResults - оценки 1-5 и средние в итогах
func TestVote_RatedAndResults(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "rowner", "rowner@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "rmember", "rmember@test.com", "password123")

	roomID, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Рейтинг")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Оцените фильмы", "rated_options", []string{"Фильм А", "Фильм Б"})

	res1, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", ownerToken, map[string]interface{}{
		"ratings": map[string]int{optionIDs[0]: 5, optionIDs[1]: 3},
	})
	require.Equal(t, http.StatusOK, res1.StatusCode)

	res2, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
		"ratings": map[string]int{optionIDs[0]: 4},
	})
	require.Equal(t, http.StatusOK, res2.StatusCode)

	// Оценка вне диапазона
	badRes, badBodyStr := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
		"ratings": map[string]int{optionIDs[1]: 6},
	})
	assert.Equal(t, http.StatusBadRequest, badRes.StatusCode)
	assert.Contains(t, badBodyStr, "Вы уже проголосовали")

	resultsRes, resultsBodyStr := ts.SendRequest(t, "GET", "/api/v1/polls/"+pollID+"/results", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resultsRes.StatusCode)

	var results struct {
		TotalVoters int `json:"total_voters"`
		Ratings     []struct {
			OptionID  string  `json:"option_id"`
			AvgRating float64 `json:"avg_rating"`
			Count     int     `json:"count"`
		} `json:"ratings"`
	}
	helpers.DecodeJSON(t, resultsBodyStr, &results)
	assert.Equal(t, 2, results.TotalVoters)
	require.Len(t, results.Ratings, 2)
	assert.InDelta(t, 4.5, results.Ratings[0].AvgRating, 0.001)
	assert.Equal(t, 2, results.Ratings[0].Count)
	assert.InDelta(t, 3.0, results.Ratings[1].AvgRating, 0.001)
	assert.Equal(t, 1, results.Ratings[1].Count)
}

// TestEditPoll_PreservesVotes - правка одним запросом: вариант с id
// переименовывается, без id добавляется, не упомянутый вариант и
// поданные голоса остаются на месте
func TestEditPoll_PreservesVotes(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "eowner", "eowner@test.com", "password123")
	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Правки")

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Старый вопрос", "single", []string{"Старый вариант", "Второй"})

	voteRes, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", ownerToken, map[string]interface{}{
		"option_id": optionIDs[0],
	})
	require.Equal(t, http.StatusOK, voteRes.StatusCode)

	// "Второй" в списке не упомянут - он не должен пропасть
	updRes, updBodyStr := ts.SendRequest(t, "PATCH", "/api/v1/polls/"+pollID, ownerToken, map[string]interface{}{
		"question": "Новый вопрос",
		"options": []map[string]interface{}{
			{"id": optionIDs[0], "text": "Новый вариант"},
			{"text": "Третий"},
		},
	})
	assert.Equal(t, http.StatusOK, updRes.StatusCode)
	assert.Contains(t, updBodyStr, "Новый вопрос")
	assert.Contains(t, updBodyStr, "Новый вариант")
	assert.Contains(t, updBodyStr, "Третий")
	assert.Contains(t, updBodyStr, "Второй", "Не упомянутый вариант не удаляется")

	var updated struct {
		Options []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"options"`
	}
	helpers.DecodeJSON(t, updBodyStr, &updated)
	require.Len(t, updated.Options, 3)

	votes := helpers.CountRows(t, ts.DB, &models.Vote{}, "poll_id = ? AND option_id = ?", pollID, optionIDs[0])
	assert.Equal(t, int64(1), votes, "Голоса должны пережить правку")

	// Чужой id варианта в правке не проходит
	_, otherOptionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Другой опрос", "single", []string{"В", "Г"})
	badRes, _ := ts.SendRequest(t, "PATCH", "/api/v1/polls/"+pollID, ownerToken, map[string]interface{}{
		"options": []map[string]interface{}{
			{"id": otherOptionIDs[0], "text": "Чужой"},
		},
	})
	assert.Equal(t, http.StatusNotFound, badRes.StatusCode)
}

// TestGetPoll_Aggregates - карточка опроса несет is_owner и итоги по
// вариантам: среднюю оценку и число оценок для rated_options
func TestGetPoll_Aggregates(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "agowner", "agowner@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "agmember", "agmember@test.com", "password123")

	roomID, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Итоги")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Оцените фильмы", "rated_options", []string{"Фильм А", "Фильм Б"})

	voteRes, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", memberToken, map[string]interface{}{
		"ratings": map[string]int{optionIDs[0]: 5},
	})
	require.Equal(t, http.StatusOK, voteRes.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/polls/"+pollID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var poll struct {
		IsOwner  bool `json:"is_owner"`
		HasVoted bool `json:"has_voted"`
		Options  []struct {
			ID            string   `json:"id"`
			AverageRating *float64 `json:"average_rating"`
			VoteCount     *int     `json:"vote_count"`
		} `json:"options"`
	}
	helpers.DecodeJSON(t, bodyStr, &poll)
	assert.True(t, poll.IsOwner)
	assert.False(t, poll.HasVoted)
	require.Len(t, poll.Options, 2)
	require.NotNil(t, poll.Options[0].AverageRating)
	assert.InDelta(t, 5.0, *poll.Options[0].AverageRating, 0.001)
	require.NotNil(t, poll.Options[0].VoteCount)
	assert.Equal(t, 1, *poll.Options[0].VoteCount)
	require.NotNil(t, poll.Options[1].VoteCount)
	assert.Equal(t, 0, *poll.Options[1].VoteCount, "Вариант без оценок показывает ноль")

	memberRes, memberBodyStr := ts.SendRequest(t, "GET", "/api/v1/polls/"+pollID, memberToken, nil)
	assert.Equal(t, http.StatusOK, memberRes.StatusCode)
	assert.Contains(t, memberBodyStr, `"is_owner":false`)
	assert.Contains(t, memberBodyStr, `"has_voted":true`)

	// Для single/multiple вместо оценок - число голосов
	singlePollID, singleOptionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Куда едем?", "single", []string{"Горы", "Море"})
	singleVoteRes, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+singlePollID+"/vote", memberToken, map[string]interface{}{
		"option_id": singleOptionIDs[0],
	})
	require.Equal(t, http.StatusOK, singleVoteRes.StatusCode)

	singleRes, singleBodyStr := ts.SendRequest(t, "GET", "/api/v1/polls/"+singlePollID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, singleRes.StatusCode)

	var singlePoll struct {
		Options []struct {
			Votes *int `json:"votes"`
		} `json:"options"`
	}
	helpers.DecodeJSON(t, singleBodyStr, &singlePoll)
	require.Len(t, singlePoll.Options, 2)
	require.NotNil(t, singlePoll.Options[0].Votes)
	assert.Equal(t, 1, *singlePoll.Options[0].Votes)
	require.NotNil(t, singlePoll.Options[1].Votes)
	assert.Equal(t, 0, *singlePoll.Options[1].Votes)
}

// TestAddOptionAndDeletePoll - добавление варианта и каскадное удаление
func TestAddOptionAndDeletePoll(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "downer", "downer@test.com", "password123")
	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Удаление")

	pollID, optionIDs := helpers.CreatePollViaAPI(t, ts, ownerToken, roomID, "Вопрос", "single", []string{"А", "Б"})

	addRes, addBodyStr := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/options", ownerToken, map[string]interface{}{
		"text": "В",
	})
	assert.Equal(t, http.StatusCreated, addRes.StatusCode)
	assert.Contains(t, addBodyStr, `"text":"В"`)

	voteRes, _ := ts.SendRequest(t, "POST", "/api/v1/polls/"+pollID+"/vote", ownerToken, map[string]interface{}{
		"option_id": optionIDs[0],
	})
	require.Equal(t, http.StatusOK, voteRes.StatusCode)

	delRes, _ := ts.SendRequest(t, "DELETE", "/api/v1/polls/"+pollID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, delRes.StatusCode)

	assert.Equal(t, int64(0), helpers.CountRows(t, ts.DB, &models.Poll{}, "id = ?", pollID))
	assert.Equal(t, int64(0), helpers.CountRows(t, ts.DB, &models.PollOption{}, "poll_id = ?", pollID))
	assert.Equal(t, int64(0), helpers.CountRows(t, ts.DB, &models.Vote{}, "poll_id = ?", pollID))
}
