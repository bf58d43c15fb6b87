package main

import "github.com/adanyl0v/go-todo-server/internal/app"

func main() {
	a := app.New()
	a.MustReadEnv()
	a.MustInitApplicationLogger()

	a.MustOpenStorage()
	defer a.CloseStorage()

	a.MustListenAndServeHTTP()
}
