// Package release реализует доступ к базе каталога релизов:
// разворачивает имя релиза в список идентификаторов тайлов.
//
// Repo работает поверх postgres (pgx); Resolve реализует полный
// порядок разрешения tile-селектора CLI: файл со списком, имя релиза,
// буквальный идентификатор тайла.
package release
