package common

// NotFoundError означает, что запись не найдена в базе.
// Фатальная ошибка для скриптов: прерывает работу до любых записей
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// ValidationError означает некорректные входные параметры.
// Фатальная ошибка для скриптов: прерывает работу до любых записей
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
