package main

import launcher "impact-tests-launcher/internal/app"

func main() {
	launcher.Run()
}
