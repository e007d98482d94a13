// Package orchestrator управляет жизненным циклом тайлов.
//
// Mixer ведёт каждый тайл через стадии:
//   - setup   — разбиение, создание job units и скриптов
//   - run     — отправка job units без валидного выхода (идемпотентно)
//   - rerun   — безусловная переотправка всех job units
//   - collate — сборка частичных каталогов в каталог тайла
//   - archive — удаление промежуточных выходов, архивация логов
//   - clean   — полный сброс тайла
//   - link    — публикация symlink'а на итоговый каталог
//
// Состояние тайла не хранится отдельно — оно выводится из файловой
// системы, поэтому каждая стадия идемпотентна и переживает перезапуск.
// Разрушительные стадии защищены: archive отказывает без успешной
// коллации, setup не перезаписывает существующие скрипты без clobber.
package orchestrator
