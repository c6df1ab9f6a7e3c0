package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок.
Сообщения, которые видит пользователь, — короткие, в одну строку.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (частые, статичные ошибки домена)
// =========================================================================

// ErrAlreadyVoted - повторная попытка голосовать в том же опросе.
// Текст фиксирован: его показывает интерфейс.
var ErrAlreadyVoted = New(
	CodeConflict,
	"poll",
	"Вы уже проголосовали",
	http.StatusBadRequest,
)

// ErrInvalidBallot - бюллетень не соответствует типу опроса
var ErrInvalidBallot = New(CodeInvalidOperation, "poll", "Неверный тип голосования", http.StatusBadRequest)

// ErrPollNotFound - опрос не найден
var ErrPollNotFound = New(CodeNotFound, "poll", "Голосование не найдено", http.StatusNotFound)

// ErrRoomNotFound - комната не найдена
var ErrRoomNotFound = New(CodeNotFound, "room", "Комната не найдена", http.StatusNotFound)

// ErrNotRoomMember - пользователь не состоит в комнате
var ErrNotRoomMember = New(CodeForbidden, "room", "Вы не состоите в этой комнате", http.StatusForbidden)

// ErrNotRoomOwner - операция доступна только владельцу комнаты
var ErrNotRoomOwner = New(CodeForbidden, "room", "Нет прав", http.StatusForbidden)

// ErrProposalNotFound - предложение не найдено
var ErrProposalNotFound = New(CodeNotFound, "proposal", "Предложение не найдено", http.StatusNotFound)

// ErrProposalReviewed - предложение уже рассмотрено, статус терминальный
var ErrProposalReviewed = New(CodeConflict, "proposal", "Предложение уже рассмотрено", http.StatusConflict)

// ErrUserAlreadyExists - пользователь с таким email или никнеймом уже существует
var ErrUserAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Пользователь с таким email или никнеймом уже существует",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный логин или пароль
var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Неверный логин или пароль", http.StatusUnauthorized)
