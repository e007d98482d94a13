// Package domain содержит основные типы предметной области.
//
// Структура:
//   - object.go    — объекты каталога, связи близости, FoF-группы
//   - job.go       — job units: диапазоны FoF-индексов и рабочие директории
//   - runconfig.go — конфигурация запуска (run config)
//   - status.go    — состояния тайла и статусы фитирования
//   - flags.go     — битовые флаги объектов и значения по умолчанию
//
// Типы — чистые данные без зависимостей от других internal-пакетов.
package domain
