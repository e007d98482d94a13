// Package fof строит friends-of-friends разбиение каталога тайла.
//
// Partition детерминированно группирует объекты в компоненты связности
// по связям близости и выдаёт стабильное упорядочение групп: любой
// непрерывный диапазон индексов групп идентифицирует одни и те же
// объекты при каждом вызове.
package fof
