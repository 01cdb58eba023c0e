// caseboard is a case-pipeline Kanban board for legal practices.
package main

import "github.com/caseboard/caseboard/cmd"

func main() {
	cmd.Execute()
}
