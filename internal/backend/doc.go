// Package backend абстрагирует выполнение job units.
//
// Backend отвечает на один вопрос: "как физически запустить этот job
// unit". Local выполняет job.sh синхронно в текущем дереве процессов;
// Queue публикует job в RabbitMQ и возвращается сразу (fire-and-forget).
// Новые backend'ы добавляются реализацией интерфейса, без изменений
// в оркестраторе.
package backend
