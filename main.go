package main

import "github.com/frahmantamala/admin-mock-backend/cmd"

func main() {
	cmd.Execute()
}
