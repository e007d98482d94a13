// Package driver реализует контракт фитирующего драйвера.
//
// Driver потребляет данные одного тайла плюс диапазон FoF-индексов
// (nil = все группы) и выдаёт частичный каталог: по одной строке на
// объект со статусом обработки. Ошибка фитирования одного объекта
// никогда не прерывает остальные объекты job unit — отказы пишутся
// построчно.
//
// Сам численный метод фитирования — внешний коллаборатор за интерфейсом
// Fitter; реализации регистрируются в Registry по имени модели.
package driver
