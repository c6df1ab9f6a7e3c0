package integration_test

import (
	"net/http"
	"testing"

	"roomvote_backend/internal/models"
	"roomvote_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestCreateRoom - владелец создается участником автоматически
func TestCreateRoom(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token, owner := helpers.RegisterAndLogin(t, ts, "owner1", "owner1@test.com", "password123")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms", token, map[string]interface{}{
		"name":        "Кино по пятницам",
		"description": "Выбираем фильм на вечер",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, "Кино по пятницам")
	assert.Contains(t, bodyStr, `"is_owner":true`)
	assert.Contains(t, bodyStr, "invite_code")

	var roomResponse struct {
		ID string `json:"id"`
	}
	helpers.DecodeJSON(t, bodyStr, &roomResponse)

	members := helpers.CountRows(t, ts.DB, &models.RoomMember{}, "room_id = ? AND user_id = ?", roomResponse.ID, owner.ID)
	assert.Equal(t, int64(1), members, "Владелец должен быть участником")
}

// TestJoinRoom - вход по коду и идемпотентный повторный вход
func TestJoinRoom(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "owner2", "owner2@test.com", "password123")
	memberToken, member := helpers.RegisterAndLogin(t, ts, "member2", "member2@test.com", "password123")

	roomID, inviteCode := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Настолки")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/join", memberToken, map[string]interface{}{
		"invite_code": inviteCode,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	// Код приглашения виден только владельцу
	assert.NotContains(t, bodyStr, inviteCode)
	assert.Contains(t, bodyStr, `"is_owner":false`)

	// Повторный вход не создает дубликат
	res2, _ := ts.SendRequest(t, "POST", "/api/v1/rooms/join", memberToken, map[string]interface{}{
		"invite_code": inviteCode,
	})
	assert.Equal(t, http.StatusOK, res2.StatusCode)

	members := helpers.CountRows(t, ts.DB, &models.RoomMember{}, "room_id = ? AND user_id = ?", roomID, member.ID)
	assert.Equal(t, int64(1), members)
}

// TestJoinRoom_BadCode - несуществующий код приглашения
func TestJoinRoom_BadCode(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token, _ := helpers.RegisterAndLogin(t, ts, "lost", "lost@test.com", "password123")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rooms/join", token, map[string]interface{}{
		"invite_code": "НЕТТАК",
	})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, bodyStr, "Комната не найдена")
}

// TestGetMyRooms - список комнат пользователя
func TestGetMyRooms(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "owner3", "owner3@test.com", "password123")
	memberToken, _ := helpers.RegisterAndLogin(t, ts, "member3", "member3@test.com", "password123")

	helpers.CreateRoomViaAPI(t, ts, ownerToken, "Первая")
	_, code := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Вторая")
	helpers.JoinRoomViaAPI(t, ts, memberToken, code)

	ownerRes, ownerBodyStr := ts.SendRequest(t, "GET", "/api/v1/rooms", ownerToken, nil)
	assert.Equal(t, http.StatusOK, ownerRes.StatusCode)
	assert.Contains(t, ownerBodyStr, `"total":2`)

	memberRes, memberBodyStr := ts.SendRequest(t, "GET", "/api/v1/rooms", memberToken, nil)
	assert.Equal(t, http.StatusOK, memberRes.StatusCode)
	assert.Contains(t, memberBodyStr, `"total":1`)
	assert.Contains(t, memberBodyStr, "Вторая")
	assert.NotContains(t, memberBodyStr, "Первая")
}

// TestGetRoom_NotMember - чужая комната недоступна
func TestGetRoom_NotMember(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ownerToken, _ := helpers.RegisterAndLogin(t, ts, "owner4", "owner4@test.com", "password123")
	strangerToken, _ := helpers.RegisterAndLogin(t, ts, "stranger4", "stranger4@test.com", "password123")

	roomID, _ := helpers.CreateRoomViaAPI(t, ts, ownerToken, "Закрытый клуб")

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/rooms/"+roomID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "Вы не состоите в этой комнате")
}
