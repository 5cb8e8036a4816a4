package dialog

type State string

const (
	StateIdle State = "idle"

	// Регистрация
	StateRegName       State = "reg_name"
	StateRegRole       State = "reg_role"
	StateRegDepartment State = "reg_department"

	// Передача товара
	StateTrDepartment State = "tr_department"
	StateTrDish       State = "tr_dish"
	StateTrQty        State = "tr_qty"
	StateTrLabelDate  State = "tr_label_date"

	// Админка: добавление блюда одной строкой «Название, Категория»
	StateAdmDishNew State = "adm_dish_new"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// GetString Безопасное чтение строки из payload.
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func GetInt64(p Payload, key string) (int64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

func GetFloat(p Payload, key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
