package helpers

import (
	"encoding/json"
	"net/http"
	"testing"

	"roomvote_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// RegisterAndLogin регистрирует пользователя через API и возвращает
// access-токен вместе с данными пользователя.
func RegisterAndLogin(t *testing.T, ts *TestServer, username, email, password string) (string, models.User) {
	registerBody := map[string]interface{}{
		"username": username,
		"email":    email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Регистрация должна быть успешной. Ответ: "+bodyStr)

	var authResponse struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	err := json.Unmarshal([]byte(bodyStr), &authResponse)
	require.NoError(t, err, "Не удалось распарсить JSON")
	require.NotEmpty(t, authResponse.AccessToken, "Токен не должен быть пустым")

	var user models.User
	err = ts.DB.First(&user, "id = ?", authResponse.User.ID).Error
	require.NoError(t, err, "Пользователь должен существовать в БД")

	return authResponse.AccessToken, user
}

// CreateRoomViaAPI создает комнату через API и возвращает ее ID и код приглашения
func CreateRoomViaAPI(t *testing.T, ts *TestServer, token, name string) (string, string) {
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/rooms", token, map[string]interface{}{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Создание комнаты должно быть успешным. Ответ: "+bodyStr)

	var roomResponse struct {
		ID         string `json:"id"`
		InviteCode string `json:"invite_code"`
	}
	DecodeJSON(t, bodyStr, &roomResponse)
	require.NotEmpty(t, roomResponse.InviteCode, "Владелец должен видеть код приглашения")

	return roomResponse.ID, roomResponse.InviteCode
}

// JoinRoomViaAPI присоединяет пользователя к комнате по коду приглашения
func JoinRoomViaAPI(t *testing.T, ts *TestServer, token, inviteCode string) {
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/rooms/join", token, map[string]interface{}{
		"invite_code": inviteCode,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Вход по коду должен быть успешным. Ответ: "+bodyStr)
}

// CreatePollViaAPI создает опрос и возвращает его ID и ID вариантов
func CreatePollViaAPI(t *testing.T, ts *TestServer, token, roomID, question, pollType string, options []string) (string, []string) {
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/rooms/"+roomID+"/polls", token, map[string]interface{}{
		"question": question,
		"type":     pollType,
		"options":  options,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Создание опроса должно быть успешным. Ответ: "+bodyStr)

	var pollResponse struct {
		ID      string `json:"id"`
		Options []struct {
			ID string `json:"id"`
		} `json:"options"`
	}
	DecodeJSON(t, bodyStr, &pollResponse)

	optionIDs := make([]string, 0, len(pollResponse.Options))
	for _, opt := range pollResponse.Options {
		optionIDs = append(optionIDs, opt.ID)
	}
	return pollResponse.ID, optionIDs
}

// CountRows считает строки модели напрямую в БД
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	var count int64
	err := db.Model(model).Where(query, args...).Count(&count).Error
	require.NoError(t, err)
	return count
}
