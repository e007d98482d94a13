// Package cli реализует инструмент командной строки Skymixer.
//
// # Обзор
//
// CLI — единая точка входа жизненного цикла тайлов. Каждая стадия —
// отдельная cobra-команда с одинаковой сигнатурой:
//
//	skymixer <stage> RUN_CONFIG TILES [flags]
//
// где RUN_CONFIG — имя запуска или путь к yaml-конфигурации, а
// TILES — файл со списком тайлов, имя релиза или один тайл.
//
// # Команды
//
//   - setup: разбиение тайла и генерация job-скриптов
//   - run: отправка job units с невалидным выходом
//   - rerun: сброс выходов и повторная отправка всех job units
//   - collate: слияние частичных каталогов (с --verify — только проверка)
//   - archive: упаковка рабочего дерева после коллации
//   - clean: полный сброс тайла
//   - link: публикация итогового каталога в output/
//   - status: отчёт о состоянии жизненного цикла каждого тайла
//
// # Ошибки
//
// Ошибка использования (неверные аргументы или флаги) помечается
// ErrUsage; main транслирует её в код выхода 2. Любой отказ стадии —
// код выхода 1.
package cli
