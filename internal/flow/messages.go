package flow

import "fmt"

// User-facing texts. The restart button is matched verbatim from any
// state, like the /start command.
const (
	RestartButton = "🔄 Перезапустить бота"

	msgSelect      = "Выберите шаблон документа:"
	msgSelectRetry = "Не удалось распознать выбор. Выберите шаблон кнопкой ниже."

	msgCacheOffer   = "Найдены ответы прошлой заявки. Использовать их?"
	btnCacheReuse   = "Использовать сохранённые"
	btnCacheReenter = "Ввести заново"

	btnYes           = "Да"
	btnNo            = "Нет"
	msgConfirmTail   = "Всё верно?"
	msgYesNoExpected = "Ответьте «Да» или «Нет»."

	btnBlockAdd       = "Добавить ещё"
	btnBlockFinish    = "Завершить"
	msgBlockChoice    = "Добавить ещё одну запись или завершить?"
	defaultDatePrompt = "Укажите дату осмотра:"

	msgUploadFailed = "Не удалось прочитать файл. Введите значение текстом."
)

func genericPrompt(label string) string {
	return fmt.Sprintf("Введите значение для поля: «%s»", label)
}

func templateErrorMessage(displayName string) string {
	return fmt.Sprintf("Шаблон «%s» недоступен. Выберите другой шаблон или перезапустите бота.", displayName)
}

func generationErrorMessage(displayName string) string {
	return fmt.Sprintf("Не удалось сформировать документ «%s». Попробуйте ещё раз или перезапустите бота.", displayName)
}

func blockAddedMessage(count int) string {
	return fmt.Sprintf("Запись №%d добавлена. %s", count, msgBlockChoice)
}
