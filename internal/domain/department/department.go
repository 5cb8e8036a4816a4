package department

// Department Цех фабрики. "customer" — виртуальный цех без сотрудников.
type Department string

const (
	Bakery        Department = "bakery"
	Confectionery Department = "confectionery"
	Kitchen       Department = "kitchen"
	Packaging     Department = "packaging"
	Warehouse     Department = "warehouse"
	Refrigerator  Department = "refrigerator"
	Customer      Department = "customer"
)

// All Фиксированный порядок для клавиатур и отчётов.
func All() []Department {
	return []Department{Bakery, Confectionery, Kitchen, Packaging, Warehouse, Refrigerator, Customer}
}

func Valid(d Department) bool {
	for _, v := range All() {
		if v == d {
			return true
		}
	}
	return false
}

// Title Отображаемое название цеха.
func (d Department) Title() string {
	switch d {
	case Bakery:
		return "Пекарня"
	case Confectionery:
		return "Кондитерка"
	case Kitchen:
		return "Кухня"
	case Packaging:
		return "Упаковка"
	case Warehouse:
		return "Склад"
	case Refrigerator:
		return "Холодильник"
	case Customer:
		return "Покупатель"
	}
	return string(d)
}

// Sink Цеха-«стоки»: в них некому подтверждать приёмку.
func Sink(d Department) bool {
	return d == Refrigerator || d == Customer
}
