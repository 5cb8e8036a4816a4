package dishes

import "time"

type Dish struct {
	ID        int64
	Name      string
	Category  string
	CreatedAt time.Time
}
