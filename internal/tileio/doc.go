// Package tileio предоставляет доступ к входным данным тайла.
//
// Source — граница с внешним хранилищем вырезок и каталогов детекции.
// Структурный бинарный формат (MEDS/FITS) остаётся снаружи: здесь
// реализован JSON-источник с той же раскладкой директорий, интерфейс
// позволяет подменить его бинарным кодеком без изменений оркестратора.
package tileio
