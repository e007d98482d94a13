// Package mq предоставляет инфраструктуру RabbitMQ для удалённого
// execution backend'а.
//
// Структура:
//   - connection.go — соединение с reconnect и graceful shutdown
//   - topology.go   — exchanges, queues, bindings
//   - publisher.go  — публикация job-сообщений
//   - consumer.go   — потребление job-сообщений воркером
//
// Типы сообщений:
//   - job.ready     — job unit готов к выполнению (потребитель: worker)
//   - job.completed — job unit выполнен (аудит, ручной разбор)
//
// Оркестратор не ждёт завершения jobs через очередь: submission —
// fire-and-forget, готовность проверяется по выходным файлам на
// следующих вызовах run/collate.
package mq
