// Package telemetry обеспечивает structured logging.
//
// Уровень логирования задаётся явно (флаг --verbosity у CLI) и
// передаётся значением, а не через глобальное изменяемое состояние;
// сгенерированные job-скрипты получают его через окружение.
package telemetry
