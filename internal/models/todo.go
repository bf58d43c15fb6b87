package models

type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
}

type NewTodo struct {
	Title       string
	Description string
	Completed   bool
}
