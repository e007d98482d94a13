// Skymixer — оркестратор жизненного цикла тайлов.
//
// Использование:
//
//	skymixer <stage> RUN_CONFIG TILES [flags]
//
// Стадии:
//
//	setup     Разбиение тайлов и генерация job-скриптов
//	run       Отправка job units с невалидным выходом
//	rerun     Сброс выходов и повторная отправка
//	collate   Слияние частичных каталогов
//	archive   Упаковка рабочего дерева
//	clean     Полный сброс тайлов
//	link      Публикация итоговых каталогов
//	status    Отчёт о состоянии каждого тайла
//
// Коды выхода: 0 — успех, 1 — отказ стадии, 2 — ошибка использования.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Skymixer/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
