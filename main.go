package main

import "complaint-desk.com/complaint-desk/cmd"

func main() {
	cmd.Execute()
}
