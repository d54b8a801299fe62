package reprice_properties

// Result итог одного запуска переоценки
type Result struct {
	RunID     string
	Processed int // объекты, для которых цены записаны
	Failed    int // объекты, на которых произошла ошибка
	Days      int // всего записанных дней
}
