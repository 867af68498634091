/*
Copyright © 2025 UnluckyForSome
*/
package main

import "github.com/UnluckyForSome/artdex/cmd"

func main() {
	cmd.Execute()
}
