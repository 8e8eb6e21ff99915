package main

import "github.com/meinhoongagan/roadside-assist/cmd"

func main() {
	cmd.Execute()
}
