// @title           corpmatch API
// @version         1.0
// @description     API корпоративного дейтинг-сервиса: анкеты, пары, встречи, такси.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import (
	"corpmatch_backend/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в проде переменные приходят из окружения
	_ = godotenv.Load()

	app.Run()
}
