// Package worker выполняет job units из удалённой очереди.
//
// Worker — stateless компонент: получает job.ready из RabbitMQ,
// запускает job-скрипт в рабочей директории job unit'а и публикует
// job.completed. Выходной файл пишет сам фитирующий драйвер; воркеру
// не нужен доступ к базе или конфигурации запуска.
//
// Workers масштабируются горизонтально: несколько экземпляров
// потребляют из одной очереди.
package worker
