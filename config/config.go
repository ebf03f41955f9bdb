package config

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读取工作目录下的 .env（若存在），已存在的环境变量不会被覆盖
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load env: %v", err)
	}
}
