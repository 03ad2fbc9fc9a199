package main

import "github.com/killallgit/telehotels/cmd"

// @title           TeleHotels
// @version         1.0.0
// @description     Operational surface of the TeleHotels Telegram bot: health, version and the Telegram webhook
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8443
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
