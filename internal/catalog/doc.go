// Package catalog читает, пишет и собирает каталоги результатов.
//
// Структура:
//   - partial.go — частичный каталог одного job unit (чтение/запись/проверка)
//   - collate.go — коллация частичных каталогов в каталог тайла
//   - blind.go   — blinding-преобразование чувствительных полей
//
// Каталоги сериализуются в JSON. Структурный бинарный формат вырезок
// (MEDS/FITS) — внешний коллаборатор и в этот пакет не входит.
package catalog
